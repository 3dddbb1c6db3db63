package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type PreferenceType string

const (
	TeacherPreferredTimes PreferenceType = "teacher_preferred_times"
	LunchBreak            PreferenceType = "lunch_break"
	DayCompactness        PreferenceType = "day_compactness"
	AvoidLateClasses      PreferenceType = "avoid_late_classes"
)

// Preference is a weighted soft constraint. Preferences never bind the
// search; they only score a finished schedule.
type Preference struct {
	Type   PreferenceType
	Target string // teacher or group id, empty for global preferences
	Weight float64

	Slots      []string // preferred timeslots, for TeacherPreferredTimes
	Start, End string   // protected window, for LunchBreak
	Cutoff     string   // latest acceptable start time, for AvoidLateClasses
}

type PreferenceManager struct {
	preferences []Preference
}

func NewPreferenceManager() *PreferenceManager {
	return &PreferenceManager{}
}

func (manager *PreferenceManager) AddTeacherPreference(teacherID string, preferredSlots []string, weight float64) {
	manager.preferences = append(manager.preferences, Preference{
		Type:   TeacherPreferredTimes,
		Target: teacherID,
		Weight: weight,
		Slots:  preferredSlots,
	})
}

func (manager *PreferenceManager) AddLunchBreak(start, end string, weight float64) {
	manager.preferences = append(manager.preferences, Preference{
		Type:   LunchBreak,
		Weight: weight,
		Start:  start,
		End:    end,
	})
}

func (manager *PreferenceManager) AddCompactDay(groupID string, weight float64) {
	manager.preferences = append(manager.preferences, Preference{
		Type:   DayCompactness,
		Target: groupID,
		Weight: weight,
	})
}

func (manager *PreferenceManager) AddAvoidLateClasses(cutoff string, weight float64) {
	manager.preferences = append(manager.preferences, Preference{
		Type:   AvoidLateClasses,
		Weight: weight,
		Cutoff: cutoff,
	})
}

func (manager *PreferenceManager) Preferences() []Preference {
	return slices.Clone(manager.preferences)
}

// Evaluate scores how well a schedule satisfies the registered preferences,
// as a weighted mean in [0, 1]. An empty manager scores 1.
func (manager *PreferenceManager) Evaluate(problem *model.TimetablingProblem, schedule model.Schedule) float64 {
	if len(manager.preferences) == 0 {
		return 1
	}

	assignments := schedule.Assignments()
	totalScore, totalWeight := 0.0, 0.0
	for _, preference := range manager.preferences {
		totalScore += scorePreference(preference, problem, assignments) * preference.Weight
		totalWeight += preference.Weight
	}
	if totalWeight == 0 {
		return 1
	}
	return totalScore / totalWeight
}

func scorePreference(preference Preference, problem *model.TimetablingProblem, assignments []model.Assignment) float64 {
	switch preference.Type {
	case TeacherPreferredTimes:
		return scoreTeacherTimes(preference, problem, assignments)
	case LunchBreak:
		return scoreLunchBreak(preference, problem, assignments)
	case DayCompactness:
		return scoreDayCompactness(preference, problem, assignments)
	case AvoidLateClasses:
		return scoreAvoidLateClasses(preference, problem, assignments)
	}
	return 1
}

// Share of the teacher's classes landing in one of the preferred slots.
func scoreTeacherTimes(preference Preference, problem *model.TimetablingProblem, assignments []model.Assignment) float64 {
	teacherAssignments := lo.Filter(assignments, func(assignment model.Assignment, _ int) bool {
		event, _ := problem.Event(assignment.EventID)
		return event.TeacherID == preference.Target
	})
	if len(teacherAssignments) == 0 {
		return 1
	}

	preferred := lo.CountBy(teacherAssignments, func(assignment model.Assignment) bool {
		return lo.Contains(preference.Slots, assignment.SlotID)
	})
	return float64(preferred) / float64(len(teacherAssignments))
}

// Share of classes that stay clear of the protected window.
func scoreLunchBreak(preference Preference, problem *model.TimetablingProblem, assignments []model.Assignment) float64 {
	if len(assignments) == 0 {
		return 1
	}

	violations := lo.CountBy(assignments, func(assignment model.Assignment) bool {
		slot, _ := problem.TimeSlot(assignment.SlotID)
		// HH:MM strings compare correctly as text
		return !(slot.End <= preference.Start || slot.Start >= preference.End)
	})
	return 1 - float64(violations)/float64(len(assignments))
}

// Penalizes gaps over two hours between the group's classes within a day.
func scoreDayCompactness(preference Preference, problem *model.TimetablingProblem, assignments []model.Assignment) float64 {
	startsByDay := make(map[string][]string)
	for _, assignment := range assignments {
		event, _ := problem.Event(assignment.EventID)
		if !lo.Contains(event.GroupIDs, preference.Target) {
			continue
		}
		slot, _ := problem.TimeSlot(assignment.SlotID)
		startsByDay[slot.Day] = append(startsByDay[slot.Day], slot.Start)
	}
	if len(startsByDay) == 0 {
		return 1
	}

	totalPenalty := 0.0
	for _, starts := range startsByDay {
		if len(starts) <= 1 {
			continue
		}
		slices.Sort(starts)
		gaps := 0
		for i := 1; i < len(starts); i++ {
			if startHour(starts[i])-startHour(starts[i-1]) > 2 {
				gaps++
			}
		}
		totalPenalty += float64(gaps) / float64(len(starts)-1)
	}
	return 1 - totalPenalty/float64(len(startsByDay))
}

// Share of classes starting before the cutoff.
func scoreAvoidLateClasses(preference Preference, problem *model.TimetablingProblem, assignments []model.Assignment) float64 {
	if len(assignments) == 0 {
		return 1
	}

	late := lo.CountBy(assignments, func(assignment model.Assignment) bool {
		slot, _ := problem.TimeSlot(assignment.SlotID)
		return slot.Start >= preference.Cutoff
	})
	return 1 - float64(late)/float64(len(assignments))
}

//** JSON loading

type rawTeacherPreference struct {
	TeacherID      string   `mapstructure:"teacher_id"`
	PreferredSlots []string `mapstructure:"preferred_slots"`
	Weight         float64
}

type rawWindowPreference struct {
	StartTime  string `mapstructure:"start_time"`
	EndTime    string `mapstructure:"end_time"`
	CutoffTime string `mapstructure:"cutoff_time"`
	Weight     float64
}

type rawGroupPreference struct {
	Type    string
	GroupID string `mapstructure:"group_id"`
	Weight  float64
}

type rawPreferences struct {
	TeacherPreferences []rawTeacherPreference `mapstructure:"teacher_preferences"`
	LunchBreak         *rawWindowPreference   `mapstructure:"lunch_break"`
	GroupPreferences   []rawGroupPreference   `mapstructure:"group_preferences"`
	AvoidLateClasses   *rawWindowPreference   `mapstructure:"avoid_late_classes"`
}

// LoadPreferences reads a preference configuration file. Missing weights and
// times fall back to usable defaults, so sparse configurations stay valid.
func LoadPreferences(file string) (*PreferenceManager, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read preferences file: %v", err)
	}

	var preferencesJson map[string]any
	if err := json.Unmarshal(bytes, &preferencesJson); err != nil {
		return nil, err
	}

	var raw rawPreferences
	if err := mapstructure.Decode(preferencesJson, &raw); err != nil {
		return nil, fmt.Errorf("cannot decode preferences: %v", err)
	}

	manager := NewPreferenceManager()
	for _, preference := range raw.TeacherPreferences {
		manager.AddTeacherPreference(preference.TeacherID, preference.PreferredSlots, defaulted(preference.Weight, 0.7))
	}
	if raw.LunchBreak != nil {
		start, end := raw.LunchBreak.StartTime, raw.LunchBreak.EndTime
		if start == "" {
			start = "12:00"
		}
		if end == "" {
			end = "14:00"
		}
		manager.AddLunchBreak(start, end, defaulted(raw.LunchBreak.Weight, 0.8))
	}
	for _, preference := range raw.GroupPreferences {
		if preference.Type == "compact" {
			manager.AddCompactDay(preference.GroupID, defaulted(preference.Weight, 0.6))
		}
	}
	if raw.AvoidLateClasses != nil {
		cutoff := raw.AvoidLateClasses.CutoffTime
		if cutoff == "" {
			cutoff = "18:00"
		}
		manager.AddAvoidLateClasses(cutoff, defaulted(raw.AvoidLateClasses.Weight, 0.5))
	}
	return manager, nil
}

func defaulted(weight, fallback float64) float64 {
	if weight == 0 {
		return fallback
	}
	return weight
}
