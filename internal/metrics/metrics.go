package metrics

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	attendanceBatches metric.Int64Counter
	attendanceRecords metric.Int64Counter
	paymentsRecorded  metric.Int64Counter
	monthsSettled     metric.Int64Counter
	studentsPromoted  metric.Int64Counter
	studentsGraduated metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.attendanceBatches, err = meter.Int64Counter(
		"transport_service.attendance.batches",
		metric.WithDescription("Total number of attendance batches recorded"),
		metric.WithUnit("{batch}"),
	)
	if err != nil {
		return nil, err
	}

	m.attendanceRecords, err = meter.Int64Counter(
		"transport_service.attendance.records",
		metric.WithDescription("Total number of attendance records persisted"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	m.paymentsRecorded, err = meter.Int64Counter(
		"transport_service.payments.recorded",
		metric.WithDescription("Total number of tuition payments recorded"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, err
	}

	m.monthsSettled, err = meter.Int64Counter(
		"transport_service.payments.months_settled",
		metric.WithDescription("Total number of months settled via batch payments"),
		metric.WithUnit("{month}"),
	)
	if err != nil {
		return nil, err
	}

	m.studentsPromoted, err = meter.Int64Counter(
		"transport_service.promotion.promoted",
		metric.WithDescription("Total number of students promoted to the next grade"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	m.studentsGraduated, err = meter.Int64Counter(
		"transport_service.promotion.graduated",
		metric.WithDescription("Total number of students graduated"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordAttendanceBatch(ctx context.Context, records int) {
	if m != nil && m.attendanceBatches != nil {
		m.attendanceBatches.Add(ctx, 1)
		m.attendanceRecords.Add(ctx, int64(records))
	}
}

func (m *Metrics) RecordPayment(ctx context.Context) {
	if m != nil && m.paymentsRecorded != nil {
		m.paymentsRecorded.Add(ctx, 1)
	}
}

func (m *Metrics) RecordBatchSettlement(ctx context.Context, months int) {
	if m != nil && m.monthsSettled != nil {
		m.monthsSettled.Add(ctx, int64(months))
	}
}

func (m *Metrics) RecordPromotion(ctx context.Context, promoted, graduated int) {
	if m == nil {
		return
	}
	if m.studentsPromoted != nil {
		m.studentsPromoted.Add(ctx, int64(promoted))
	}
	if m.studentsGraduated != nil {
		m.studentsGraduated.Add(ctx, int64(graduated))
	}
}
