package promotion

// GradeGraduated is the label a student keeps on record after leaving
// the school through the top of the progression.
const GradeGraduated = "Graduated"

// graduateMarker is the terminal token inside the progression table.
const graduateMarker = "GRADUATE"

type step struct {
	from string
	to   string
}

// progression is the full grade ladder, lowest level first. Adding or
// removing a level is a data change here, not a logic change.
var progression = []step{
	{"Preschool 1", "Preschool 2"},
	{"Preschool 2", "Preschool 3"},
	{"Preschool 3", "Grade 1"},
	{"Grade 1", "Grade 2"},
	{"Grade 2", "Grade 3"},
	{"Grade 3", "Grade 4"},
	{"Grade 4", "Grade 5"},
	{"Grade 5", "Grade 6"},
	{"Grade 6", graduateMarker},
}

var nextByGrade = func() map[string]string {
	m := make(map[string]string, len(progression))
	for _, s := range progression {
		m[s.from] = s.to
	}
	return m
}()

// nextGrade returns the grade following the given one, or ok=false when
// the grade is not on the ladder.
func nextGrade(grade string) (next string, ok bool) {
	next, ok = nextByGrade[grade]
	return next, ok
}
