package model

import (
	"fmt"
	"log"
	"slices"
	"strings"
)

// Assignment places one event into a timeslot and room.
type Assignment struct {
	EventID string
	SlotID  string
	RoomID  string
}

// Schedule is a partial timetable and the state type of the search. The
// assignments are kept sorted by event id, so two schedules holding the same
// assignments in any insertion order are one and the same state. Schedules
// are immutable; With returns a new value.
type Schedule struct {
	assignments []Assignment
}

func EmptySchedule() Schedule {
	return Schedule{}
}

func NewSchedule(assignments []Assignment) Schedule {
	schedule := EmptySchedule()
	for _, assignment := range assignments {
		schedule = schedule.With(assignment)
	}
	return schedule
}

// With returns a copy of the schedule extended by the given assignment,
// inserted at its canonical position.
func (schedule Schedule) With(assignment Assignment) Schedule {
	position, present := slices.BinarySearchFunc(schedule.assignments, assignment, func(a, b Assignment) int {
		return strings.Compare(a.EventID, b.EventID)
	})
	if present {
		log.Panicf("event %v is already assigned", assignment.EventID)
	}

	assignments := make([]Assignment, 0, len(schedule.assignments)+1)
	assignments = append(assignments, schedule.assignments[:position]...)
	assignments = append(assignments, assignment)
	assignments = append(assignments, schedule.assignments[position:]...)
	return Schedule{assignments: assignments}
}

func (schedule Schedule) Len() int {
	return len(schedule.assignments)
}

func (schedule Schedule) Assignments() []Assignment {
	return slices.Clone(schedule.assignments)
}

func (schedule Schedule) Get(eventID string) (Assignment, bool) {
	position, present := slices.BinarySearchFunc(schedule.assignments, Assignment{EventID: eventID}, func(a, b Assignment) int {
		return strings.Compare(a.EventID, b.EventID)
	})
	if !present {
		return Assignment{}, false
	}
	return schedule.assignments[position], true
}

// Key implements search.State. Equal keys identify structurally equal
// schedules, which holds because assignments are kept sorted.
func (schedule Schedule) Key() string {
	var builder strings.Builder
	for i, assignment := range schedule.assignments {
		if i > 0 {
			builder.WriteByte(';')
		}
		fmt.Fprintf(&builder, "%v=%v@%v", assignment.EventID, assignment.SlotID, assignment.RoomID)
	}
	return builder.String()
}
