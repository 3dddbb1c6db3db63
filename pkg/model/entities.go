package model

type TimeSlot struct {
	ID          string
	Day         string
	Start       string
	End         string
	DurationMin int
}

type Room struct {
	ID        string
	Capacity  int
	Available []string // timeslot ids (weekly pattern)
}

type Teacher struct {
	ID        string
	Available []string // timeslot ids (weekly pattern)
}

type Group struct {
	ID        string
	Size      int
	Available []string // timeslot ids (weekly pattern)
}

type Event struct {
	ID          string
	TeacherID   string
	GroupIDs    []string
	DurationMin int
	// AllowedSlots restricts the event to the listed timeslots; nil means
	// unrestricted.
	AllowedSlots []string

	// From the module/session structure of the input
	MinRoomCapacity    int
	SessionID          string
	ModuleID           string
	ModuleHoursPerWeek float64

	// Active weeks. Events with disjoint week sets never conflict.
	Weeks WeekSet
}

// ModelInput is the flattened entity collection a TimetablingProblem is
// built from.
type ModelInput struct {
	TimeSlots []TimeSlot
	Rooms     []Room
	Teachers  []Teacher
	Groups    []Group
	Events    []Event
}
