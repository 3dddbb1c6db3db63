package model

import (
	"fmt"
	"slices"
	"strings"
)

var dayOrder = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DayIndex maps a weekday label to its position in the Mon..Sun week.
// Unknown labels sort after the known ones.
func DayIndex(day string) int {
	if index := slices.Index(dayOrder, day); index >= 0 {
		return index
	}
	return len(dayOrder)
}

// CompareSlots orders timeslots by weekday, then start time, then id.
func CompareSlots(a, b TimeSlot) int {
	if aDay, bDay := DayIndex(a.Day), DayIndex(b.Day); aDay != bDay {
		return aDay - bDay
	}
	if comparison := strings.Compare(a.Day, b.Day); comparison != 0 {
		return comparison
	}
	if comparison := strings.Compare(a.Start, b.Start); comparison != 0 {
		return comparison
	}
	return strings.Compare(a.ID, b.ID)
}

// FormatSchedule renders a schedule as one line per assignment, ordered by
// weekday and start time.
func FormatSchedule(problem *TimetablingProblem, schedule Schedule) string {
	assignments := schedule.Assignments()
	slices.SortFunc(assignments, func(a, b Assignment) int {
		aSlot, _ := problem.TimeSlot(a.SlotID)
		bSlot, _ := problem.TimeSlot(b.SlotID)
		if comparison := CompareSlots(aSlot, bSlot); comparison != 0 {
			return comparison
		}
		return strings.Compare(a.EventID, b.EventID)
	})

	var builder strings.Builder
	builder.WriteString("================= SCHEDULE =================\n")
	for _, assignment := range assignments {
		event, _ := problem.Event(assignment.EventID)
		slot, _ := problem.TimeSlot(assignment.SlotID)
		room, _ := problem.Room(assignment.RoomID)
		fmt.Fprintf(&builder,
			"- %v %v-%v | event=%v | teacher=%v | groups=%v | room=%v | required=%v/%v | weeks=%v | session=%v module=%v\n",
			slot.Day, slot.Start, slot.End,
			event.ID, event.TeacherID, event.GroupIDs, room.ID,
			problem.RequiredCapacity(event.ID), room.Capacity,
			event.Weeks.Format(), event.SessionID, event.ModuleID,
		)
	}
	builder.WriteString("============================================\n")
	return builder.String()
}
