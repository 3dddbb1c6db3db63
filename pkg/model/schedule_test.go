package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleKeepsAssignmentsSorted(t *testing.T) {
	// Arrange
	assignments := []Assignment{
		{EventID: "C", SlotID: "Mon_08", RoomID: "R1"},
		{EventID: "A", SlotID: "Tue_10", RoomID: "R2"},
		{EventID: "B", SlotID: "Mon_10", RoomID: "R1"},
	}

	// Act
	schedule := NewSchedule(assignments)

	// Assert
	sorted := schedule.Assignments()
	assert.Equal(t, 3, schedule.Len())
	assert.Equal(t, "A", sorted[0].EventID)
	assert.Equal(t, "B", sorted[1].EventID)
	assert.Equal(t, "C", sorted[2].EventID)
}

func TestScheduleKeyIsInsertionOrderIndependent(t *testing.T) {
	// Arrange
	first := EmptySchedule().
		With(Assignment{EventID: "A", SlotID: "Mon_08", RoomID: "R1"}).
		With(Assignment{EventID: "B", SlotID: "Mon_10", RoomID: "R2"})
	second := EmptySchedule().
		With(Assignment{EventID: "B", SlotID: "Mon_10", RoomID: "R2"}).
		With(Assignment{EventID: "A", SlotID: "Mon_08", RoomID: "R1"})

	// Assert
	assert.Equal(t, first.Key(), second.Key())
	assert.Equal(t, "A=Mon_08@R1;B=Mon_10@R2", first.Key())
	assert.Equal(t, "", EmptySchedule().Key())
}

func TestScheduleWithLeavesOriginalUntouched(t *testing.T) {
	original := EmptySchedule().With(Assignment{EventID: "A", SlotID: "Mon_08", RoomID: "R1"})
	extended := original.With(Assignment{EventID: "B", SlotID: "Mon_10", RoomID: "R2"})

	assert.Equal(t, 1, original.Len())
	assert.Equal(t, 2, extended.Len())
}

func TestScheduleGet(t *testing.T) {
	schedule := NewSchedule([]Assignment{
		{EventID: "A", SlotID: "Mon_08", RoomID: "R1"},
		{EventID: "B", SlotID: "Mon_10", RoomID: "R2"},
	})

	assignment, ok := schedule.Get("B")
	assert.True(t, ok)
	assert.Equal(t, "Mon_10", assignment.SlotID)
	assert.Equal(t, "R2", assignment.RoomID)

	_, ok = schedule.Get("missing")
	assert.False(t, ok)
}

func TestScheduleRejectsDuplicateEvent(t *testing.T) {
	schedule := EmptySchedule().With(Assignment{EventID: "A", SlotID: "Mon_08", RoomID: "R1"})

	assert.Panics(t, func() {
		schedule.With(Assignment{EventID: "A", SlotID: "Tue_10", RoomID: "R2"})
	})
}
