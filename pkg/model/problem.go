package model

import (
	"fmt"
	"slices"

	"github.com/limaJavier/schedsearch/pkg/search"
	"github.com/samber/lo"
)

// PlaceAction schedules one event into a timeslot and room. It is the only
// action type the timetabling problem generates.
type PlaceAction struct {
	EventID string
	SlotID  string
	RoomID  string
}

func (action PlaceAction) String() string {
	return fmt.Sprintf("%v=%v@%v", action.EventID, action.SlotID, action.RoomID)
}

// TimetablingProblem models feasible timetabling as state-space search over
// partial schedules. All hard constraints (duration match, availabilities,
// capacity, week-aware resource conflicts) are enforced by action generation,
// so every reachable state is consistent. The problem is read-only once
// constructed and safe for concurrent runs.
type TimetablingProblem struct {
	useMRV bool

	// Entity collections in input order, alongside their id indexes
	events      []Event
	slots       []TimeSlot
	rooms       []Room
	teachers    []Teacher
	groups      []Group
	eventByID   map[string]Event
	slotByID    map[string]TimeSlot
	roomByID    map[string]Room
	teacherByID map[string]Teacher
	groupByID   map[string]Group

	teacherAvailable map[string]map[string]bool
	groupAvailable   map[string]map[string]bool
	roomAvailable    map[string]map[string]bool

	compatibleSlots map[string][]string // sorted by slot id
	compatibleRooms map[string][]string // room input order
}

func NewTimetablingProblem(input ModelInput, useMRV bool) (*TimetablingProblem, error) {
	problem := &TimetablingProblem{
		useMRV:      useMRV,
		events:      slices.Clone(input.Events),
		slots:       slices.Clone(input.TimeSlots),
		rooms:       slices.Clone(input.Rooms),
		teachers:    slices.Clone(input.Teachers),
		groups:      slices.Clone(input.Groups),
		eventByID:   make(map[string]Event, len(input.Events)),
		slotByID:    make(map[string]TimeSlot, len(input.TimeSlots)),
		roomByID:    make(map[string]Room, len(input.Rooms)),
		teacherByID: make(map[string]Teacher, len(input.Teachers)),
		groupByID:   make(map[string]Group, len(input.Groups)),

		teacherAvailable: make(map[string]map[string]bool, len(input.Teachers)),
		groupAvailable:   make(map[string]map[string]bool, len(input.Groups)),
		roomAvailable:    make(map[string]map[string]bool, len(input.Rooms)),

		compatibleSlots: make(map[string][]string, len(input.Events)),
		compatibleRooms: make(map[string][]string, len(input.Events)),
	}

	//** Index entities, rejecting duplicate ids
	for _, slot := range input.TimeSlots {
		if _, ok := problem.slotByID[slot.ID]; ok {
			return nil, fmt.Errorf("duplicate timeslot id %v", slot.ID)
		}
		problem.slotByID[slot.ID] = slot
	}
	for _, room := range input.Rooms {
		if _, ok := problem.roomByID[room.ID]; ok {
			return nil, fmt.Errorf("duplicate room id %v", room.ID)
		}
		problem.roomByID[room.ID] = room
	}
	for _, teacher := range input.Teachers {
		if _, ok := problem.teacherByID[teacher.ID]; ok {
			return nil, fmt.Errorf("duplicate teacher id %v", teacher.ID)
		}
		problem.teacherByID[teacher.ID] = teacher
	}
	for _, group := range input.Groups {
		if _, ok := problem.groupByID[group.ID]; ok {
			return nil, fmt.Errorf("duplicate group id %v", group.ID)
		}
		problem.groupByID[group.ID] = group
	}
	for _, event := range input.Events {
		if _, ok := problem.eventByID[event.ID]; ok {
			return nil, fmt.Errorf("duplicate event id %v", event.ID)
		}
		problem.eventByID[event.ID] = event
	}

	//** Resolve availability patterns, rejecting unknown timeslot references
	var err error
	for _, teacher := range input.Teachers {
		if problem.teacherAvailable[teacher.ID], err = problem.slotSet(teacher.Available, "teacher", teacher.ID); err != nil {
			return nil, err
		}
	}
	for _, group := range input.Groups {
		if problem.groupAvailable[group.ID], err = problem.slotSet(group.Available, "group", group.ID); err != nil {
			return nil, err
		}
	}
	for _, room := range input.Rooms {
		if problem.roomAvailable[room.ID], err = problem.slotSet(room.Available, "room", room.ID); err != nil {
			return nil, err
		}
	}

	//** Validate event references
	for _, event := range input.Events {
		if _, ok := problem.teacherByID[event.TeacherID]; !ok {
			return nil, fmt.Errorf("event %v references unknown teacher %v", event.ID, event.TeacherID)
		}
		for _, groupID := range event.GroupIDs {
			if _, ok := problem.groupByID[groupID]; !ok {
				return nil, fmt.Errorf("event %v references unknown group %v", event.ID, groupID)
			}
		}
		for _, slotID := range event.AllowedSlots {
			if _, ok := problem.slotByID[slotID]; !ok {
				return nil, fmt.Errorf("event %v allows unknown timeslot %v", event.ID, slotID)
			}
		}
	}

	//** Precompute per-event domains
	for _, event := range input.Events {
		// Compatible rooms: capacity covers max(total audience, module minimum)
		required := problem.RequiredCapacity(event.ID)
		problem.compatibleRooms[event.ID] = lo.FilterMap(input.Rooms, func(room Room, _ int) (string, bool) {
			return room.ID, room.Capacity >= required
		})

		// Compatible slots: duration match, teacher availability and every
		// group's availability, narrowed by allowed slots when present
		slots := make([]string, 0, len(input.TimeSlots))
		for _, slot := range input.TimeSlots {
			if slot.DurationMin != event.DurationMin {
				continue
			}
			if !problem.teacherAvailable[event.TeacherID][slot.ID] {
				continue
			}
			unavailable := lo.SomeBy(event.GroupIDs, func(groupID string) bool {
				return !problem.groupAvailable[groupID][slot.ID]
			})
			if unavailable {
				continue
			}
			if event.AllowedSlots != nil && !slices.Contains(event.AllowedSlots, slot.ID) {
				continue
			}
			slots = append(slots, slot.ID)
		}
		slices.Sort(slots)
		problem.compatibleSlots[event.ID] = slots
	}

	return problem, nil
}

func (problem *TimetablingProblem) slotSet(slotIDs []string, kind, id string) (map[string]bool, error) {
	set := make(map[string]bool, len(slotIDs))
	for _, slotID := range slotIDs {
		if _, ok := problem.slotByID[slotID]; !ok {
			return nil, fmt.Errorf("%v %v is available at unknown timeslot %v", kind, id, slotID)
		}
		set[slotID] = true
	}
	return set, nil
}

// ZeroDomainEvents lists events that cannot be scheduled at all: no
// compatible timeslot or no compatible room. This is structural
// infeasibility, detectable before any search runs.
func (problem *TimetablingProblem) ZeroDomainEvents() []string {
	return lo.FilterMap(problem.events, func(event Event, _ int) (string, bool) {
		return event.ID, len(problem.compatibleSlots[event.ID]) == 0 || len(problem.compatibleRooms[event.ID]) == 0
	})
}

//** search.Problem implementation

func (problem *TimetablingProblem) Start() search.State {
	return EmptySchedule()
}

// Actions generates placements for exactly one unassigned event, so the
// branching factor stays bounded by that event's domain instead of the sum
// over all events.
func (problem *TimetablingProblem) Actions(state search.State) []search.Action {
	schedule := state.(Schedule)
	event, ok := problem.selectNextEvent(schedule)
	if !ok {
		return nil
	}

	actions := make([]search.Action, 0)
	for _, slotID := range problem.compatibleSlots[event.ID] {
		if !problem.teacherFree(schedule, event, slotID) {
			continue
		}
		if !problem.groupsFree(schedule, event, slotID) {
			continue
		}
		for _, roomID := range problem.compatibleRooms[event.ID] {
			if !problem.roomAvailable[roomID][slotID] {
				continue
			}
			if !problem.roomFree(schedule, event, slotID, roomID) {
				continue
			}
			actions = append(actions, PlaceAction{EventID: event.ID, SlotID: slotID, RoomID: roomID})
		}
	}
	return actions
}

func (problem *TimetablingProblem) Result(state search.State, action search.Action) search.State {
	placement := action.(PlaceAction)
	return state.(Schedule).With(Assignment{
		EventID: placement.EventID,
		SlotID:  placement.SlotID,
		RoomID:  placement.RoomID,
	})
}

func (problem *TimetablingProblem) GoalTest(state search.State) bool {
	return state.(Schedule).Len() == len(problem.events)
}

func (problem *TimetablingProblem) PathCost(cost float64, state search.State, action search.Action, next search.State) float64 {
	return cost + 1
}

// selectNextEvent picks the event to branch on: the unassigned event with the
// smallest |compatible slots| x |compatible rooms| product under MRV, with
// input order breaking ties, or simply the first unassigned event when MRV is
// disabled.
func (problem *TimetablingProblem) selectNextEvent(schedule Schedule) (Event, bool) {
	unassigned := lo.Filter(problem.events, func(event Event, _ int) bool {
		_, assigned := schedule.Get(event.ID)
		return !assigned
	})
	if len(unassigned) == 0 {
		return Event{}, false
	}
	if !problem.useMRV {
		return unassigned[0], true
	}

	best := unassigned[0]
	bestSize := problem.domainSize(best.ID)
	for _, event := range unassigned[1:] {
		if size := problem.domainSize(event.ID); size < bestSize {
			best, bestSize = event, size
		}
	}
	return best, true
}

func (problem *TimetablingProblem) domainSize(eventID string) int {
	return len(problem.compatibleSlots[eventID]) * len(problem.compatibleRooms[eventID])
}

//** Week-aware conflict predicates

func (problem *TimetablingProblem) teacherFree(schedule Schedule, candidate Event, slotID string) bool {
	for _, assignment := range schedule.assignments {
		if assignment.SlotID != slotID {
			continue
		}
		existing := problem.eventByID[assignment.EventID]
		if existing.TeacherID != candidate.TeacherID {
			continue
		}
		if existing.Weeks.Intersects(candidate.Weeks) {
			return false
		}
	}
	return true
}

func (problem *TimetablingProblem) groupsFree(schedule Schedule, candidate Event, slotID string) bool {
	for _, assignment := range schedule.assignments {
		if assignment.SlotID != slotID {
			continue
		}
		existing := problem.eventByID[assignment.EventID]
		shared := lo.SomeBy(candidate.GroupIDs, func(groupID string) bool {
			return slices.Contains(existing.GroupIDs, groupID)
		})
		if shared && existing.Weeks.Intersects(candidate.Weeks) {
			return false
		}
	}
	return true
}

func (problem *TimetablingProblem) roomFree(schedule Schedule, candidate Event, slotID, roomID string) bool {
	for _, assignment := range schedule.assignments {
		if assignment.SlotID != slotID || assignment.RoomID != roomID {
			continue
		}
		existing := problem.eventByID[assignment.EventID]
		if existing.Weeks.Intersects(candidate.Weeks) {
			return false
		}
	}
	return true
}

//** Accessors

func (problem *TimetablingProblem) Events() []Event {
	return slices.Clone(problem.events)
}

func (problem *TimetablingProblem) TimeSlots() []TimeSlot {
	return slices.Clone(problem.slots)
}

func (problem *TimetablingProblem) Rooms() []Room {
	return slices.Clone(problem.rooms)
}

func (problem *TimetablingProblem) Teachers() []Teacher {
	return slices.Clone(problem.teachers)
}

func (problem *TimetablingProblem) Groups() []Group {
	return slices.Clone(problem.groups)
}

func (problem *TimetablingProblem) Event(id string) (Event, bool) {
	event, ok := problem.eventByID[id]
	return event, ok
}

func (problem *TimetablingProblem) TimeSlot(id string) (TimeSlot, bool) {
	slot, ok := problem.slotByID[id]
	return slot, ok
}

func (problem *TimetablingProblem) Room(id string) (Room, bool) {
	room, ok := problem.roomByID[id]
	return room, ok
}

func (problem *TimetablingProblem) Teacher(id string) (Teacher, bool) {
	teacher, ok := problem.teacherByID[id]
	return teacher, ok
}

func (problem *TimetablingProblem) Group(id string) (Group, bool) {
	group, ok := problem.groupByID[id]
	return group, ok
}

func (problem *TimetablingProblem) CompatibleSlots(eventID string) []string {
	return slices.Clone(problem.compatibleSlots[eventID])
}

func (problem *TimetablingProblem) CompatibleRooms(eventID string) []string {
	return slices.Clone(problem.compatibleRooms[eventID])
}

// Demand is the total audience size of an event.
func (problem *TimetablingProblem) Demand(eventID string) int {
	event := problem.eventByID[eventID]
	return lo.Reduce(event.GroupIDs, func(total int, groupID string, _ int) int {
		return total + problem.groupByID[groupID].Size
	}, 0)
}

// RequiredCapacity is the room capacity an event needs: the larger of its
// audience size and its module's minimum room capacity.
func (problem *TimetablingProblem) RequiredCapacity(eventID string) int {
	return max(problem.Demand(eventID), problem.eventByID[eventID].MinRoomCapacity)
}

func (problem *TimetablingProblem) TeacherAvailableAt(teacherID, slotID string) bool {
	return problem.teacherAvailable[teacherID][slotID]
}

func (problem *TimetablingProblem) GroupAvailableAt(groupID, slotID string) bool {
	return problem.groupAvailable[groupID][slotID]
}

func (problem *TimetablingProblem) RoomAvailableAt(roomID, slotID string) bool {
	return problem.roomAvailable[roomID][slotID]
}
