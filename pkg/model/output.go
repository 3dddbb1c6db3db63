package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/limaJavier/schedsearch/pkg/search"
	"github.com/samber/lo"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

type OutputMeta struct {
	WeekName        string  `json:"week_name"`
	Strategy        string  `json:"strategy"`
	UseMRV          bool    `json:"use_mrv"`
	Status          string  `json:"status"`
	EventsTotal     int     `json:"events_total"`
	EventsScheduled int     `json:"events_scheduled"`
	Iterations      int     `json:"iterations"`
	NodesExplored   int     `json:"nodes_explored"`
	MaxFrontier     int     `json:"max_frontier"`
	Cost            float64 `json:"cost"`
	ElapsedMS       int64   `json:"elapsed_ms"`
}

type OutputAssignment struct {
	EventID          string   `json:"event_id"`
	SessionID        string   `json:"session_id"`
	ModuleID         string   `json:"module_id"`
	TeacherID        string   `json:"teacher_id"`
	GroupIDs         []string `json:"group_ids"`
	TimeSlotID       string   `json:"timeslot_id"`
	RoomID           string   `json:"room_id"`
	Weeks            string   `json:"weeks"`
	Demand           int      `json:"demand"`
	MinRoomCapacity  int      `json:"min_room_capacity"`
	RequiredCapacity int      `json:"required_capacity"`
	RoomCapacity     int      `json:"room_capacity"`
}

type Output struct {
	Meta        OutputMeta         `json:"meta"`
	Assignments []OutputAssignment `json:"assignments"`
}

// BuildOutput shapes a finished (or failed) run into the serializable output
// document. Assignments come out sorted by event id since Schedule keeps them
// that way.
func BuildOutput(config RunConfig, problem *TimetablingProblem, result search.Result) Output {
	status := StatusFailure
	if result.Solved() {
		status = StatusSuccess
	}

	output := Output{
		Meta: OutputMeta{
			WeekName:      config.WeekName,
			Strategy:      result.Strategy,
			UseMRV:        config.UseMRV,
			Status:        status,
			EventsTotal:   len(problem.Events()),
			Iterations:    result.Iterations,
			NodesExplored: result.Explored,
			MaxFrontier:   result.MaxFrontier,
			Cost:          result.Cost,
			ElapsedMS:     result.Elapsed.Milliseconds(),
		},
		Assignments: []OutputAssignment{},
	}
	if !result.Solved() {
		return output
	}

	schedule := result.Path[len(result.Path)-1].(Schedule)
	output.Meta.EventsScheduled = schedule.Len()
	output.Assignments = lo.Map(schedule.Assignments(), func(assignment Assignment, _ int) OutputAssignment {
		event, _ := problem.Event(assignment.EventID)
		room, _ := problem.Room(assignment.RoomID)
		return OutputAssignment{
			EventID:          event.ID,
			SessionID:        event.SessionID,
			ModuleID:         event.ModuleID,
			TeacherID:        event.TeacherID,
			GroupIDs:         event.GroupIDs,
			TimeSlotID:       assignment.SlotID,
			RoomID:           assignment.RoomID,
			Weeks:            event.Weeks.Format(),
			Demand:           problem.Demand(event.ID),
			MinRoomCapacity:  event.MinRoomCapacity,
			RequiredCapacity: problem.RequiredCapacity(event.ID),
			RoomCapacity:     room.Capacity,
		}
	})
	return output
}

// WriteOutput marshals the output document and writes it to outFile, or to
// the standard output when outFile is empty.
func WriteOutput(output Output, outFile string) error {
	outputJson, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal output: %v", err)
	}
	if outFile == "" {
		fmt.Println(string(outputJson))
		return nil
	}
	if err := os.WriteFile(outFile, outputJson, 0666); err != nil {
		return fmt.Errorf("cannot write output file: %v", err)
	}
	return nil
}
