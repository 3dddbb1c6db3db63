package analysis

import (
	"testing"

	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/stretchr/testify/assert"
)

const preferencesTestFile = "../../test/preferences/default_preferences.json"

func TestPreferenceManagerEvaluate(t *testing.T) {
	problem := fixtureProblem(t)
	schedule := model.NewSchedule([]model.Assignment{
		{EventID: "E1", SlotID: "Mon_08", RoomID: "R1"},
		{EventID: "E2", SlotID: "Mon_10", RoomID: "R2"},
	})

	t.Run("Empty manager", func(t *testing.T) {
		assert.Equal(t, 1.0, NewPreferenceManager().Evaluate(problem, schedule))
	})

	t.Run("Teacher preferred times", func(t *testing.T) {
		// Arrange: T1 teaches both classes but only Mon_08 is preferred
		manager := NewPreferenceManager()
		manager.AddTeacherPreference("T1", []string{"Mon_08"}, 1.0)

		// Act
		score := manager.Evaluate(problem, schedule)

		// Assert
		assert.Equal(t, 0.5, score)
	})

	t.Run("Lunch break", func(t *testing.T) {
		// The 10:00-12:00 class runs into the protected window
		manager := NewPreferenceManager()
		manager.AddLunchBreak("11:00", "12:00", 1.0)

		assert.Equal(t, 0.5, manager.Evaluate(problem, schedule))
	})

	t.Run("Avoid late classes", func(t *testing.T) {
		manager := NewPreferenceManager()
		manager.AddAvoidLateClasses("10:00", 1.0)

		assert.Equal(t, 0.5, manager.Evaluate(problem, schedule))
	})

	t.Run("Weighted mean over preferences", func(t *testing.T) {
		manager := NewPreferenceManager()
		manager.AddTeacherPreference("T1", []string{"Mon_08", "Mon_10"}, 1.0) // scores 1
		manager.AddAvoidLateClasses("10:00", 1.0)                            // scores 0.5

		assert.Equal(t, 0.75, manager.Evaluate(problem, schedule))
	})

	t.Run("Unaffected teacher", func(t *testing.T) {
		manager := NewPreferenceManager()
		manager.AddTeacherPreference("T2", []string{"Tue_08"}, 1.0)

		// T2 has no classes in this schedule
		assert.Equal(t, 1.0, manager.Evaluate(problem, schedule))
	})
}

func TestDayCompactnessPreference(t *testing.T) {
	problem := gapDayProblem(t)
	schedule := model.NewSchedule([]model.Assignment{
		{EventID: "E1", SlotID: "Mon_08", RoomID: "R1"},
		{EventID: "E2", SlotID: "Mon_14", RoomID: "R1"},
	})

	manager := NewPreferenceManager()
	manager.AddCompactDay("G1", 1.0)

	assert.Equal(t, 0.0, manager.Evaluate(problem, schedule))
}

func TestLoadPreferences(t *testing.T) {
	//** Act
	manager, err := LoadPreferences(preferencesTestFile)

	//** Assert
	assert.Nil(t, err)
	assert.Equal(t, []Preference{
		{Type: TeacherPreferredTimes, Target: "T1", Weight: 0.9, Slots: []string{"Mon_08", "Mon_10"}},
		{Type: TeacherPreferredTimes, Target: "T2", Weight: 0.7, Slots: []string{"Tue_08"}},
		{Type: LunchBreak, Weight: 0.8, Start: "12:00", End: "13:00"},
		{Type: DayCompactness, Target: "G1", Weight: 0.5},
		{Type: AvoidLateClasses, Weight: 0.6, Cutoff: "17:00"},
	}, manager.Preferences())
}

func TestLoadPreferencesMissingFile(t *testing.T) {
	manager, err := LoadPreferences("missing_preferences.json")

	assert.Nil(t, manager)
	assert.NotNil(t, err)
}
