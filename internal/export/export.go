// Package export renders a solved schedule into interchange formats: CSV for
// spreadsheets, iCal for calendar applications, a JSON statistics report and
// an HTML grid. Renderers write files and return errors; logging is left to
// the commands.
package export

import (
	"slices"
	"strings"

	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/samber/lo"
)

// row is one assignment with its entities resolved, in rendering order.
type row struct {
	Assignment model.Assignment
	Event      model.Event
	Slot       model.TimeSlot
	Room       model.Room
}

func buildRows(problem *model.TimetablingProblem, schedule model.Schedule) []row {
	rows := lo.Map(schedule.Assignments(), func(assignment model.Assignment, _ int) row {
		event, _ := problem.Event(assignment.EventID)
		slot, _ := problem.TimeSlot(assignment.SlotID)
		room, _ := problem.Room(assignment.RoomID)
		return row{Assignment: assignment, Event: event, Slot: slot, Room: room}
	})
	slices.SortFunc(rows, func(a, b row) int {
		if comparison := model.CompareSlots(a.Slot, b.Slot); comparison != 0 {
			return comparison
		}
		return strings.Compare(a.Event.ID, b.Event.ID)
	})
	return rows
}
