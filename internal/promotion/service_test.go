package promotion_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"transport-service/internal/promotion"
	"transport-service/internal/student"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStudents struct {
	active      []student.Student
	updated     []*student.Student
	updateCalls int
}

func (f *fakeStudents) AllActive(ctx context.Context) ([]student.Student, error) {
	return f.active, nil
}

func (f *fakeStudents) UpdateAll(ctx context.Context, students []*student.Student) error {
	f.updateCalls++
	f.updated = students
	return nil
}

func newService(students *fakeStudents) promotion.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return promotion.NewService(students, nil, nil, logger)
}

func TestPromoteAll(t *testing.T) {
	students := &fakeStudents{active: []student.Student{
		{ID: "s1", Name: "Ana", Grade: "Preschool 1", Active: true},
		{ID: "s2", Name: "Bruno", Grade: "Grade 3", Active: true},
		{ID: "s3", Name: "Carla", Grade: "Grade 6", Active: true},
	}}
	svc := newService(students)

	summary, err := svc.PromoteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalConsidered)
	assert.Equal(t, 2, summary.Promoted)
	assert.Equal(t, 1, summary.Graduated)

	require.Len(t, students.updated, 3)
	byID := make(map[string]*student.Student)
	for _, st := range students.updated {
		byID[st.ID] = st
	}
	assert.Equal(t, "Preschool 2", byID["s1"].Grade)
	assert.Equal(t, "Grade 4", byID["s2"].Grade)
	assert.Equal(t, promotion.GradeGraduated, byID["s3"].Grade)
	assert.False(t, byID["s3"].Active, "graduates leave the active roster")
	assert.True(t, byID["s1"].Active)
	assert.Equal(t, 1, students.updateCalls, "the sweep writes one batch")
}

func TestPromoteAll_UnmappedGradeLeftAlone(t *testing.T) {
	students := &fakeStudents{active: []student.Student{
		{ID: "s1", Name: "Ana", Grade: "Night School", Active: true},
		{ID: "s2", Name: "Bruno", Grade: "Grade 1", Active: true},
	}}
	svc := newService(students)

	summary, err := svc.PromoteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalConsidered)
	assert.Equal(t, 1, summary.Promoted)
	assert.Equal(t, 0, summary.Graduated)

	require.Len(t, students.updated, 1)
	assert.Equal(t, "s2", students.updated[0].ID)
	assert.Equal(t, "Grade 2", students.updated[0].Grade)
}

func TestPromoteAll_NoActiveStudents(t *testing.T) {
	students := &fakeStudents{}
	svc := newService(students)

	summary, err := svc.PromoteAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalConsidered)
	assert.Zero(t, summary.Promoted)
	assert.Zero(t, summary.Graduated)
	assert.Zero(t, students.updateCalls)
}

func TestPromoteAll_GraduatedStaysTerminal(t *testing.T) {
	// A graduate that slipped back into the active set must not move.
	students := &fakeStudents{active: []student.Student{
		{ID: "s1", Name: "Ana", Grade: promotion.GradeGraduated, Active: true},
	}}
	svc := newService(students)

	summary, err := svc.PromoteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalConsidered)
	assert.Zero(t, summary.Promoted)
	assert.Zero(t, summary.Graduated)
	assert.Empty(t, students.updated)
}
