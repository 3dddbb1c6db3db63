package analysis

import (
	"fmt"
	"slices"
	"strings"

	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/samber/lo"
)

// ConflictType classifies a scheduling conflict.
type ConflictType string

const (
	TeacherDoubleBooking    ConflictType = "teacher_double_booking"
	RoomDoubleBooking       ConflictType = "room_double_booking"
	GroupDoubleBooking      ConflictType = "group_double_booking"
	CapacityExceeded        ConflictType = "capacity_exceeded"
	TeacherUnavailable      ConflictType = "teacher_unavailable"
	RoomUnavailable         ConflictType = "room_unavailable"
	GroupUnavailable        ConflictType = "group_unavailable"
	DurationMismatch        ConflictType = "duration_mismatch"
	InsufficientWeeklyHours ConflictType = "insufficient_weekly_hours"
	ExcessiveDailyLoad      ConflictType = "excessive_daily_load"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityMinor    Severity = "minor"
)

// Conflict describes one detected problem with enough context to act on it.
// Hard constraint violations are critical; soft ones come out as warnings.
type Conflict struct {
	Type        ConflictType
	Severity    Severity
	Description string
	Entities    []string // ids of the affected teachers, rooms, groups and events
	SlotID      string
	Suggestions []string
}

type Detector interface {
	Analyze(schedule model.Schedule) []Conflict
}

func NewDetector(problem *model.TimetablingProblem) Detector {
	return &detector{problem: problem}
}

type detector struct {
	problem *model.TimetablingProblem
}

// A teacher or group day heavier than this is flagged as overloaded.
const maxDailyLoadHours = 8.0

func (detector *detector) Analyze(schedule model.Schedule) []Conflict {
	assignments := schedule.Assignments()

	conflicts := make([]Conflict, 0)
	conflicts = append(conflicts, detector.doubleBookings(schedule, assignments)...)
	conflicts = append(conflicts, detector.capacityViolations(assignments)...)
	conflicts = append(conflicts, detector.availabilityViolations(assignments)...)
	conflicts = append(conflicts, detector.weeklyHourShortfalls(assignments)...)
	conflicts = append(conflicts, detector.excessiveDailyLoads(assignments)...)
	return conflicts
}

func (detector *detector) doubleBookings(schedule model.Schedule, assignments []model.Assignment) []Conflict {
	conflicts := make([]Conflict, 0)
	for i, a := range assignments {
		for _, b := range assignments[i+1:] {
			if a.SlotID != b.SlotID {
				continue
			}
			eventA, _ := detector.problem.Event(a.EventID)
			eventB, _ := detector.problem.Event(b.EventID)
			if !eventA.Weeks.Intersects(eventB.Weeks) {
				continue
			}

			if eventA.TeacherID == eventB.TeacherID {
				conflicts = append(conflicts, Conflict{
					Type:        TeacherDoubleBooking,
					Severity:    SeverityCritical,
					Description: fmt.Sprintf("teacher %v has overlapping assignments at %v", eventA.TeacherID, a.SlotID),
					Entities:    []string{eventA.TeacherID, eventA.ID, eventB.ID},
					SlotID:      a.SlotID,
					Suggestions: []string{
						"move one event to a different timeslot",
						"assign a different teacher to one event",
						"check whether the events can run in disjoint weeks",
					},
				})
			}
			if a.RoomID == b.RoomID {
				conflicts = append(conflicts, Conflict{
					Type:        RoomDoubleBooking,
					Severity:    SeverityCritical,
					Description: fmt.Sprintf("room %v has overlapping bookings at %v", a.RoomID, a.SlotID),
					Entities:    []string{a.RoomID, eventA.ID, eventB.ID},
					SlotID:      a.SlotID,
					Suggestions: detector.roomSuggestions(schedule, a.SlotID),
				})
			}
			for _, groupID := range lo.Intersect(eventA.GroupIDs, eventB.GroupIDs) {
				conflicts = append(conflicts, Conflict{
					Type:        GroupDoubleBooking,
					Severity:    SeverityCritical,
					Description: fmt.Sprintf("group %v has overlapping classes at %v", groupID, a.SlotID),
					Entities:    []string{groupID, eventA.ID, eventB.ID},
					SlotID:      a.SlotID,
					Suggestions: []string{
						"move one event to a different timeslot",
						"check whether the events can run in disjoint weeks",
					},
				})
			}
		}
	}
	return conflicts
}

// roomSuggestions resolves a room clash into concrete moves when a complete
// reassignment of the slot's events exists, falling back to generic advice.
func (detector *detector) roomSuggestions(schedule model.Schedule, slotID string) []string {
	suggestions := []string{
		"move one event to a different room",
		"move one event to a different timeslot",
		"check whether the events can run in disjoint weeks",
	}

	proposal, err := SuggestRooms(detector.problem, schedule, slotID)
	if err != nil {
		return suggestions
	}
	moves := lo.FilterMap(proposal, func(suggested model.Assignment, _ int) (string, bool) {
		current, ok := schedule.Get(suggested.EventID)
		return fmt.Sprintf("%v -> %v", suggested.EventID, suggested.RoomID), ok && current.RoomID != suggested.RoomID
	})
	if len(moves) == 0 {
		return suggestions
	}
	return append([]string{"reassign rooms: " + strings.Join(moves, ", ")}, suggestions...)
}

func (detector *detector) capacityViolations(assignments []model.Assignment) []Conflict {
	conflicts := make([]Conflict, 0)
	for _, assignment := range assignments {
		room, _ := detector.problem.Room(assignment.RoomID)
		required := detector.problem.RequiredCapacity(assignment.EventID)
		if required <= room.Capacity {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Type:        CapacityExceeded,
			Severity:    SeverityCritical,
			Description: fmt.Sprintf("room %v capacity (%v) insufficient for event %v (needs %v)", room.ID, room.Capacity, assignment.EventID, required),
			Entities:    []string{room.ID, assignment.EventID},
			SlotID:      assignment.SlotID,
			Suggestions: []string{
				fmt.Sprintf("use a larger room (capacity >= %v)", required),
				"split the groups into smaller sessions",
			},
		})
	}
	return conflicts
}

func (detector *detector) availabilityViolations(assignments []model.Assignment) []Conflict {
	conflicts := make([]Conflict, 0)
	for _, assignment := range assignments {
		event, _ := detector.problem.Event(assignment.EventID)
		slot, _ := detector.problem.TimeSlot(assignment.SlotID)

		if !detector.problem.TeacherAvailableAt(event.TeacherID, slot.ID) {
			conflicts = append(conflicts, Conflict{
				Type:        TeacherUnavailable,
				Severity:    SeverityCritical,
				Description: fmt.Sprintf("teacher %v is not available at %v", event.TeacherID, slot.ID),
				Entities:    []string{event.TeacherID, event.ID},
				SlotID:      slot.ID,
				Suggestions: []string{"move the event to one of the teacher's available slots"},
			})
		}
		if !detector.problem.RoomAvailableAt(assignment.RoomID, slot.ID) {
			conflicts = append(conflicts, Conflict{
				Type:        RoomUnavailable,
				Severity:    SeverityCritical,
				Description: fmt.Sprintf("room %v is not available at %v", assignment.RoomID, slot.ID),
				Entities:    []string{assignment.RoomID, event.ID},
				SlotID:      slot.ID,
				Suggestions: []string{"move the event to a different room or timeslot"},
			})
		}
		for _, groupID := range event.GroupIDs {
			if !detector.problem.GroupAvailableAt(groupID, slot.ID) {
				conflicts = append(conflicts, Conflict{
					Type:        GroupUnavailable,
					Severity:    SeverityCritical,
					Description: fmt.Sprintf("group %v is not available at %v", groupID, slot.ID),
					Entities:    []string{groupID, event.ID},
					SlotID:      slot.ID,
					Suggestions: []string{"move the event to one of the group's available slots"},
				})
			}
		}
		if event.DurationMin != slot.DurationMin {
			conflicts = append(conflicts, Conflict{
				Type:        DurationMismatch,
				Severity:    SeverityCritical,
				Description: fmt.Sprintf("event %v duration (%vmin) does not match timeslot %v (%vmin)", event.ID, event.DurationMin, slot.ID, slot.DurationMin),
				Entities:    []string{event.ID, slot.ID},
				SlotID:      slot.ID,
				Suggestions: []string{fmt.Sprintf("use a timeslot with a %vmin duration", event.DurationMin)},
			})
		}
	}
	return conflicts
}

func (detector *detector) weeklyHourShortfalls(assignments []model.Assignment) []Conflict {
	scheduledHours := make(map[string]float64)
	for _, assignment := range assignments {
		event, _ := detector.problem.Event(assignment.EventID)
		scheduledHours[event.ModuleID] += float64(event.DurationMin) / 60
	}

	expectedHours := make(map[string]float64)
	for _, event := range detector.problem.Events() {
		expectedHours[event.ModuleID] = event.ModuleHoursPerWeek
	}

	moduleIDs := lo.Keys(expectedHours)
	slices.Sort(moduleIDs)

	conflicts := make([]Conflict, 0)
	for _, moduleID := range moduleIDs {
		expected := expectedHours[moduleID]
		if expected <= 0 || scheduledHours[moduleID] >= expected {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Type:        InsufficientWeeklyHours,
			Severity:    SeverityWarning,
			Description: fmt.Sprintf("module %v has %.1fh/week scheduled, expected %.1fh/week", moduleID, scheduledHours[moduleID], expected),
			Entities:    []string{moduleID},
			Suggestions: []string{
				fmt.Sprintf("add more events for %v", moduleID),
				"verify the expected hours are correct",
			},
		})
	}
	return conflicts
}

func (detector *detector) excessiveDailyLoads(assignments []model.Assignment) []Conflict {
	type entityDay struct {
		kind string
		id   string
		day  string
	}
	loads := make(map[entityDay]float64)

	for _, assignment := range assignments {
		event, _ := detector.problem.Event(assignment.EventID)
		slot, _ := detector.problem.TimeSlot(assignment.SlotID)
		hours := float64(event.DurationMin) / 60

		loads[entityDay{kind: "teacher", id: event.TeacherID, day: slot.Day}] += hours
		for _, groupID := range event.GroupIDs {
			loads[entityDay{kind: "group", id: groupID, day: slot.Day}] += hours
		}
	}

	keys := lo.Keys(loads)
	slices.SortFunc(keys, func(a, b entityDay) int {
		if comparison := strings.Compare(a.kind, b.kind); comparison != 0 {
			return comparison
		}
		if comparison := strings.Compare(a.id, b.id); comparison != 0 {
			return comparison
		}
		return strings.Compare(a.day, b.day)
	})

	conflicts := make([]Conflict, 0)
	for _, key := range keys {
		hours := loads[key]
		if hours <= maxDailyLoadHours {
			continue
		}
		conflicts = append(conflicts, Conflict{
			Type:        ExcessiveDailyLoad,
			Severity:    SeverityWarning,
			Description: fmt.Sprintf("%v %v has %.1f hours on %v", key.kind, key.id, hours, key.day),
			Entities:    []string{key.id},
			Suggestions: []string{"redistribute events across multiple days"},
		})
	}
	return conflicts
}

// Summary counts conflicts per severity plus the total.
func Summary(conflicts []Conflict) map[Severity]int {
	summary := map[Severity]int{SeverityCritical: 0, SeverityWarning: 0, SeverityMinor: 0}
	for _, conflict := range conflicts {
		summary[conflict.Severity]++
	}
	return summary
}

// ByEntity filters the conflicts affecting a specific entity id.
func ByEntity(conflicts []Conflict, entityID string) []Conflict {
	return lo.Filter(conflicts, func(conflict Conflict, _ int) bool {
		return lo.Contains(conflict.Entities, entityID)
	})
}

// RenderConflictReport turns a conflict list into a human-readable report,
// grouped by severity.
func RenderConflictReport(conflicts []Conflict) string {
	if len(conflicts) == 0 {
		return "No conflicts detected in the schedule."
	}

	var builder strings.Builder
	builder.WriteString("CONFLICT ANALYSIS REPORT\n")
	builder.WriteString(strings.Repeat("=", 50) + "\n")

	for _, severity := range []Severity{SeverityCritical, SeverityWarning, SeverityMinor} {
		group := lo.Filter(conflicts, func(conflict Conflict, _ int) bool { return conflict.Severity == severity })
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(&builder, "\n%v CONFLICTS (%v)\n", strings.ToUpper(string(severity)), len(group))
		builder.WriteString(strings.Repeat("-", 30) + "\n")

		for i, conflict := range group {
			fmt.Fprintf(&builder, "\n%v. %v\n", i+1, conflict.Description)
			fmt.Fprintf(&builder, "   type: %v\n", conflict.Type)
			fmt.Fprintf(&builder, "   affected: %v\n", strings.Join(conflict.Entities, ", "))
			if conflict.SlotID != "" {
				fmt.Fprintf(&builder, "   timeslot: %v\n", conflict.SlotID)
			}
			for _, suggestion := range conflict.Suggestions {
				fmt.Fprintf(&builder, "   - %v\n", suggestion)
			}
		}
	}

	summary := Summary(conflicts)
	builder.WriteString("\nSUMMARY\n")
	fmt.Fprintf(&builder, "total: %v, critical: %v, warning: %v, minor: %v\n",
		len(conflicts), summary[SeverityCritical], summary[SeverityWarning], summary[SeverityMinor])
	return builder.String()
}
