package analysis

import (
	"testing"

	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func metricByName(report QualityReport, name string) QualityMetric {
	metric, _ := lo.Find(report.Metrics, func(metric QualityMetric) bool { return metric.Name == name })
	return metric
}

func TestValidatorAssess(t *testing.T) {
	problem := fixtureProblem(t)
	validator := NewValidator(problem)

	t.Run("Clean schedule", func(t *testing.T) {
		//** Arrange
		schedule := model.NewSchedule([]model.Assignment{
			{EventID: "E1", SlotID: "Mon_08", RoomID: "R1"},
			{EventID: "E2", SlotID: "Mon_10", RoomID: "R2"},
			{EventID: "E3", SlotID: "Tue_08", RoomID: "R1"},
		})

		//** Act
		report := validator.Assess(schedule)

		//** Assert
		assert.Len(t, report.Metrics, 8)
		for _, metric := range report.Metrics {
			assert.GreaterOrEqual(t, metric.Score, 0.0)
			assert.LessOrEqual(t, metric.Score, 1.0)
		}
		assert.Equal(t, 1.0, metricByName(report, "Constraint Adherence").Score)
		assert.Equal(t, 1.0, metricByName(report, "Time Distribution").Score)
		assert.Equal(t, 1.0, metricByName(report, "Teacher Satisfaction").Score)
		assert.Greater(t, report.OverallScore, 0.6)
		assert.NotEmpty(t, report.Strengths)
	})

	t.Run("Capacity violation lowers adherence", func(t *testing.T) {
		// G2 has 40 students but R1 only seats 30
		schedule := model.NewSchedule([]model.Assignment{
			{EventID: "E2", SlotID: "Mon_08", RoomID: "R1"},
		})

		report := validator.Assess(schedule)

		// One violation out of the four checks on the single assignment
		assert.Equal(t, 0.75, metricByName(report, "Constraint Adherence").Score)
		assert.Contains(t, report.Recommendations, "address hard constraint violations first, they make the schedule invalid")
		assert.NotEmpty(t, report.Weaknesses)
	})

	t.Run("Empty schedule", func(t *testing.T) {
		report := validator.Assess(model.EmptySchedule())

		assert.Len(t, report.Metrics, 8)
		assert.Equal(t, 1.0, metricByName(report, "Constraint Adherence").Score)
		assert.Equal(t, 0.0, metricByName(report, "Resource Utilization").Score)
	})

	t.Run("Metric weights", func(t *testing.T) {
		report := validator.Assess(model.EmptySchedule())

		weights := lo.SliceToMap(report.Metrics, func(metric QualityMetric) (string, float64) {
			return metric.Name, metric.Weight
		})
		assert.Equal(t, map[string]float64{
			"Constraint Adherence": 1.0,
			"Resource Utilization": 1.0,
			"Time Distribution":    0.8,
			"Workload Balance":     0.9,
			"Schedule Compactness": 0.7,
			"Room Efficiency":      0.6,
			"Teacher Satisfaction": 0.6,
			"Student Convenience":  0.5,
		}, weights)
	})
}

// gapDayProblem has one group whose two Monday classes sit six hours apart.
func gapDayProblem(t *testing.T) *model.TimetablingProblem {
	slotIDs := []string{"Mon_08", "Mon_14"}
	input := model.ModelInput{
		TimeSlots: []model.TimeSlot{
			{ID: "Mon_08", Day: "Mon", Start: "08:00", End: "10:00", DurationMin: 120},
			{ID: "Mon_14", Day: "Mon", Start: "14:00", End: "16:00", DurationMin: 120},
		},
		Rooms:    []model.Room{{ID: "R1", Capacity: 30, Available: slotIDs}},
		Teachers: []model.Teacher{{ID: "T1", Available: slotIDs}},
		Groups:   []model.Group{{ID: "G1", Size: 20, Available: slotIDs}},
		Events: []model.Event{
			{ID: "E1", TeacherID: "T1", GroupIDs: []string{"G1"}, DurationMin: 120, Weeks: model.AllWeeks(16)},
			{ID: "E2", TeacherID: "T1", GroupIDs: []string{"G1"}, DurationMin: 120, Weeks: model.AllWeeks(16)},
		},
	}
	problem, err := model.NewTimetablingProblem(input, true)
	assert.Nil(t, err)
	return problem
}

func TestCompactnessPenalizesGaps(t *testing.T) {
	problem := gapDayProblem(t)
	schedule := model.NewSchedule([]model.Assignment{
		{EventID: "E1", SlotID: "Mon_08", RoomID: "R1"},
		{EventID: "E2", SlotID: "Mon_14", RoomID: "R1"},
	})

	report := NewValidator(problem).Assess(schedule)

	// The six hour jump from 08:00 to 14:00 is the only consecutive pair
	assert.Equal(t, 0.0, metricByName(report, "Schedule Compactness").Score)
}

func TestRenderQualityReport(t *testing.T) {
	problem := fixtureProblem(t)
	schedule := model.NewSchedule([]model.Assignment{
		{EventID: "E1", SlotID: "Mon_08", RoomID: "R1"},
		{EventID: "E2", SlotID: "Mon_10", RoomID: "R2"},
		{EventID: "E3", SlotID: "Tue_08", RoomID: "R1"},
	})

	report := RenderQualityReport(NewValidator(problem).Assess(schedule))

	assert.Contains(t, report, "SCHEDULE QUALITY REPORT")
	assert.Contains(t, report, "OVERALL SCORE")
	assert.Contains(t, report, "quality level:")
	assert.Contains(t, report, "DETAILED METRICS")
	assert.Contains(t, report, "Constraint Adherence")
}
