package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// Verify independently rechecks every hard constraint on a schedule and
// returns one description per violation. Action generation never produces a
// violating schedule, so this is a safety net for loaded or hand-edited
// schedules rather than part of the search itself.
func Verify(problem *TimetablingProblem, schedule Schedule) []string {
	violations := make([]string, 0)
	assignments := schedule.Assignments()

	//** Per-assignment constraints
	for _, assignment := range assignments {
		event, ok := problem.Event(assignment.EventID)
		if !ok {
			violations = append(violations, fmt.Sprintf("assignment references unknown event %v", assignment.EventID))
			continue
		}
		slot, ok := problem.TimeSlot(assignment.SlotID)
		if !ok {
			violations = append(violations, fmt.Sprintf("event %v is assigned to unknown timeslot %v", assignment.EventID, assignment.SlotID))
			continue
		}
		room, ok := problem.Room(assignment.RoomID)
		if !ok {
			violations = append(violations, fmt.Sprintf("event %v is assigned to unknown room %v", assignment.EventID, assignment.RoomID))
			continue
		}

		if event.DurationMin != slot.DurationMin {
			violations = append(violations, fmt.Sprintf("event %v lasts %vmin but timeslot %v lasts %vmin", event.ID, event.DurationMin, slot.ID, slot.DurationMin))
		}
		if event.AllowedSlots != nil && !slices.Contains(event.AllowedSlots, slot.ID) {
			violations = append(violations, fmt.Sprintf("event %v is restricted to slots %v but assigned to %v", event.ID, event.AllowedSlots, slot.ID))
		}
		if !problem.TeacherAvailableAt(event.TeacherID, slot.ID) {
			violations = append(violations, fmt.Sprintf("teacher %v is not available at %v for event %v", event.TeacherID, slot.ID, event.ID))
		}
		for _, groupID := range event.GroupIDs {
			if !problem.GroupAvailableAt(groupID, slot.ID) {
				violations = append(violations, fmt.Sprintf("group %v is not available at %v for event %v", groupID, slot.ID, event.ID))
			}
		}
		if !problem.RoomAvailableAt(room.ID, slot.ID) {
			violations = append(violations, fmt.Sprintf("room %v is not available at %v for event %v", room.ID, slot.ID, event.ID))
		}
		if required := problem.RequiredCapacity(event.ID); room.Capacity < required {
			violations = append(violations, fmt.Sprintf("room %v capacity %v cannot fit event %v which requires %v", room.ID, room.Capacity, event.ID, required))
		}
	}

	//** Pairwise resource conflicts, week-aware
	for i, a := range assignments {
		for _, b := range assignments[i+1:] {
			if a.SlotID != b.SlotID {
				continue
			}
			eventA, okA := problem.Event(a.EventID)
			eventB, okB := problem.Event(b.EventID)
			if !okA || !okB || !eventA.Weeks.Intersects(eventB.Weeks) {
				continue
			}
			if eventA.TeacherID == eventB.TeacherID {
				violations = append(violations, fmt.Sprintf("teacher %v is double-booked at %v by events %v and %v", eventA.TeacherID, a.SlotID, eventA.ID, eventB.ID))
			}
			if a.RoomID == b.RoomID {
				violations = append(violations, fmt.Sprintf("room %v is double-booked at %v by events %v and %v", a.RoomID, a.SlotID, eventA.ID, eventB.ID))
			}
			for _, groupID := range lo.Intersect(eventA.GroupIDs, eventB.GroupIDs) {
				violations = append(violations, fmt.Sprintf("group %v is double-booked at %v by events %v and %v", groupID, a.SlotID, eventA.ID, eventB.ID))
			}
		}
	}

	return violations
}
