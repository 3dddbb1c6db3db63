package analysis

import (
	"slices"
	"strings"

	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// UnassignableError reports that no complete room reassignment exists for a
// timeslot.
type UnassignableError struct {
}

func (err UnassignableError) Error() string {
	return "not all events can be assigned a room"
}

// SuggestRooms proposes a conflict-free room assignment for all events placed
// at the given timeslot, via a maximum bipartite matching between the events
// and the rooms each one can use. The matching gives every event a distinct
// room, which is stricter than needed for events on disjoint weeks but
// always safe.
func SuggestRooms(problem *model.TimetablingProblem, schedule model.Schedule, slotID string) ([]model.Assignment, error) {
	events := lo.FilterMap(schedule.Assignments(), func(assignment model.Assignment, _ int) (string, bool) {
		return assignment.EventID, assignment.SlotID == slotID
	})
	if len(events) == 0 {
		return []model.Assignment{}, nil
	}

	rooms := lo.Map(problem.Rooms(), func(room model.Room, _ int) string { return room.ID })

	// An event can take a room when the room is large enough and open at
	// this slot
	fits := func(eventAny any, roomAny any) (bool, error) {
		eventID := eventAny.(string)
		roomID := roomAny.(string)
		return lo.Contains(problem.CompatibleRooms(eventID), roomID) && problem.RoomAvailableAt(roomID, slotID), nil
	}

	eventsAny := lo.Map(events, func(eventID string, _ int) any { return eventID })
	roomsAny := lo.Map(rooms, func(roomID string, _ int) any { return roomID })

	graph, err := bipartitegraph.NewBipartiteGraph(eventsAny, roomsAny, fits)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()
	if len(matching) < len(events) {
		return nil, UnassignableError{}
	}

	suggestions := make([]model.Assignment, 0, len(matching))
	for _, edge := range matching {
		eventIndex, roomIndex := edge.Node1, edge.Node2-len(events)
		suggestions = append(suggestions, model.Assignment{
			EventID: events[eventIndex],
			SlotID:  slotID,
			RoomID:  rooms[roomIndex],
		})
	}
	slices.SortFunc(suggestions, func(a, b model.Assignment) int {
		return strings.Compare(a.EventID, b.EventID)
	})
	return suggestions, nil
}
