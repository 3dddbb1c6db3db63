package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

type RawConfig struct {
	WeekName      string `mapstructure:"week_name"`
	Strategy      string
	UseMRV        bool `mapstructure:"use_mrv"`
	TotalWeeks    int  `mapstructure:"total_weeks"`
	MaxIterations int  `mapstructure:"max_iterations"`
	TimeoutMS     int  `mapstructure:"timeout_ms"`
}

type RawTimeSlot struct {
	ID          string
	Day         string
	Start       string
	End         string
	DurationMin int `mapstructure:"duration_min"`
}

type RawRoom struct {
	ID        string
	Capacity  int
	Available any // list of timeslot ids, or the "ALL" macro
}

type RawTeacher struct {
	ID        string
	Available any
}

type RawGroup struct {
	ID        string
	Size      int
	Available any
}

type RawAudience struct {
	Type     string
	GroupIDs []string `mapstructure:"group_ids"`
}

type RawEvent struct {
	ID           string
	TeacherID    string `mapstructure:"teacher_id"`
	Audience     RawAudience
	DurationMin  int `mapstructure:"duration_min"`
	AllowedSlots any `mapstructure:"allowed_slots"` // list, "ALL", or absent for unrestricted
	Weeks        any // list of weeks, range expression, "all", or absent for every week
}

type RawModule struct {
	ID              string
	MinRoomCapacity int     `mapstructure:"min_room_capacity"`
	HoursPerWeek    float64 `mapstructure:"hours_per_week"`
	Events          []RawEvent
}

type RawSession struct {
	ID      string
	Groups  []RawGroup
	Modules []RawModule
}

type RawInput struct {
	Config    RawConfig
	TimeSlots []RawTimeSlot `mapstructure:"timeslots"`
	Rooms     []RawRoom
	Teachers  []RawTeacher
	Sessions  []RawSession
}

// RunConfig carries the per-instance run settings from the input's config
// section.
type RunConfig struct {
	WeekName      string
	Strategy      string
	UseMRV        bool
	TotalWeeks    int
	MaxIterations int
	Timeout       time.Duration
}

func InputFromJson(file string) (RunConfig, ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return RunConfig{}, ModelInput{}, fmt.Errorf("cannot read input file: %v", err)
	}
	return ParseInput(bytes)
}

func ParseInput(bytes []byte) (RunConfig, ModelInput, error) {
	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return RunConfig{}, ModelInput{}, err
	}

	// Absent config keys keep these defaults
	rawInput := RawInput{
		Config: RawConfig{Strategy: "dfs", UseMRV: true, TotalWeeks: 16},
	}
	if err := mapstructure.Decode(inputJson, &rawInput); err != nil {
		return RunConfig{}, ModelInput{}, fmt.Errorf("cannot decode input: %v", err)
	}
	return ProcessRawInput(rawInput)
}

// ProcessRawInput flattens the session/module hierarchy into the entity
// collections the problem is built from, resolving audience and availability
// macros along the way. Reference resolution is left to
// NewTimetablingProblem.
func ProcessRawInput(rawInput RawInput) (RunConfig, ModelInput, error) {
	config := RunConfig{
		WeekName:      rawInput.Config.WeekName,
		Strategy:      strings.ToLower(rawInput.Config.Strategy),
		UseMRV:        rawInput.Config.UseMRV,
		TotalWeeks:    rawInput.Config.TotalWeeks,
		MaxIterations: rawInput.Config.MaxIterations,
		Timeout:       time.Duration(rawInput.Config.TimeoutMS) * time.Millisecond,
	}

	if len(rawInput.Sessions) == 0 {
		return RunConfig{}, ModelInput{}, fmt.Errorf("input must contain a non-empty sessions list")
	}

	allSlotIDs := lo.Map(rawInput.TimeSlots, func(slot RawTimeSlot, _ int) string { return slot.ID })

	input := ModelInput{
		TimeSlots: lo.Map(rawInput.TimeSlots, func(slot RawTimeSlot, _ int) TimeSlot {
			return TimeSlot{ID: slot.ID, Day: slot.Day, Start: slot.Start, End: slot.End, DurationMin: slot.DurationMin}
		}),
	}

	for _, rawRoom := range rawInput.Rooms {
		available, err := resolveAvailable(rawRoom.Available, allSlotIDs, "room", rawRoom.ID)
		if err != nil {
			return RunConfig{}, ModelInput{}, err
		}
		input.Rooms = append(input.Rooms, Room{ID: rawRoom.ID, Capacity: rawRoom.Capacity, Available: available})
	}

	for _, rawTeacher := range rawInput.Teachers {
		available, err := resolveAvailable(rawTeacher.Available, allSlotIDs, "teacher", rawTeacher.ID)
		if err != nil {
			return RunConfig{}, ModelInput{}, err
		}
		input.Teachers = append(input.Teachers, Teacher{ID: rawTeacher.ID, Available: available})
	}

	//** Flatten sessions into groups and events
	for _, session := range rawInput.Sessions {
		sessionGroupIDs := make([]string, 0, len(session.Groups))

		for _, rawGroup := range session.Groups {
			available, err := resolveAvailable(rawGroup.Available, allSlotIDs, "group", rawGroup.ID)
			if err != nil {
				return RunConfig{}, ModelInput{}, err
			}
			input.Groups = append(input.Groups, Group{ID: rawGroup.ID, Size: rawGroup.Size, Available: available})
			sessionGroupIDs = append(sessionGroupIDs, rawGroup.ID)
		}

		for _, module := range session.Modules {
			for _, rawEvent := range module.Events {
				groupIDs, err := resolveAudience(rawEvent.Audience, sessionGroupIDs, rawEvent.ID)
				if err != nil {
					return RunConfig{}, ModelInput{}, err
				}

				allowedSlots, err := resolveAllowedSlots(rawEvent.AllowedSlots, rawEvent.ID)
				if err != nil {
					return RunConfig{}, ModelInput{}, err
				}

				weeks, err := ParseWeeks(rawEvent.Weeks, config.TotalWeeks)
				if err != nil {
					return RunConfig{}, ModelInput{}, fmt.Errorf("event %v: %v", rawEvent.ID, err)
				}

				input.Events = append(input.Events, Event{
					ID:                 rawEvent.ID,
					TeacherID:          rawEvent.TeacherID,
					GroupIDs:           groupIDs,
					DurationMin:        rawEvent.DurationMin,
					AllowedSlots:       allowedSlots,
					MinRoomCapacity:    module.MinRoomCapacity,
					SessionID:          session.ID,
					ModuleID:           module.ID,
					ModuleHoursPerWeek: module.HoursPerWeek,
					Weeks:              weeks,
				})
			}
		}
	}

	return config, input, nil
}

func resolveAvailable(value any, allSlotIDs []string, kind, id string) ([]string, error) {
	switch available := value.(type) {
	case nil:
		return []string{}, nil
	case string:
		if strings.EqualFold(available, "ALL") {
			return lo.Map(allSlotIDs, func(slotID string, _ int) string { return slotID }), nil
		}
	case []any:
		slotIDs := make([]string, 0, len(available))
		for _, item := range available {
			slotID, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%v %v has an invalid availability entry %v", kind, id, item)
			}
			slotIDs = append(slotIDs, slotID)
		}
		return slotIDs, nil
	}
	return nil, fmt.Errorf("%v %v has an invalid availability value %v (expected a list or \"ALL\")", kind, id, value)
}

func resolveAllowedSlots(value any, eventID string) ([]string, error) {
	switch allowed := value.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.EqualFold(allowed, "ALL") {
			return nil, nil
		}
	case []any:
		slotIDs := make([]string, 0, len(allowed))
		for _, item := range allowed {
			slotID, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("event %v has an invalid allowed slot %v", eventID, item)
			}
			slotIDs = append(slotIDs, slotID)
		}
		return slotIDs, nil
	}
	return nil, fmt.Errorf("event %v has an invalid allowed_slots value %v (expected a list or \"ALL\")", eventID, value)
}

func resolveAudience(audience RawAudience, sessionGroupIDs []string, eventID string) ([]string, error) {
	switch audience.Type {
	case "all_groups":
		return slices.Clone(sessionGroupIDs), nil
	case "groups", "":
		return slices.Clone(audience.GroupIDs), nil
	}
	return nil, fmt.Errorf("event %v has unknown audience type %q (use \"groups\" or \"all_groups\")", eventID, audience.Type)
}
