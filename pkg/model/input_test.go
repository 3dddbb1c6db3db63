package model

import (
	"log"
	"os"
	"testing"
	"time"

	"github.com/limaJavier/schedsearch/pkg/search"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

const (
	feasibleTestDirectory   = "../../test/instances/feasible/"
	infeasibleTestDirectory = "../../test/instances/infeasible/"
)

func TestInputFromJson(t *testing.T) {
	//**Arrange

	//**Act
	config, input, err := InputFromJson(feasibleTestDirectory + "department_week.json")

	//**Assert
	assert.Nil(t, err)
	assert.Equal(t, "2025-S1", config.WeekName)
	assert.Equal(t, "astar", config.Strategy)
	assert.True(t, config.UseMRV)
	assert.Equal(t, 16, config.TotalWeeks)
	assert.Equal(t, 200000, config.MaxIterations)
	assert.Equal(t, 10*time.Second, config.Timeout)

	assert.Len(t, input.TimeSlots, 6)
	assert.Len(t, input.Rooms, 3)
	assert.Len(t, input.Teachers, 3)
	assert.Len(t, input.Groups, 3)
	assert.Len(t, input.Events, 6)

	allSlotIDs := lo.Map(input.TimeSlots, func(slot TimeSlot, _ int) string { return slot.ID })
	eventByID := lo.SliceToMap(input.Events, func(event Event) (string, Event) { return event.ID, event })

	t.Run("ALL availability macro expands to every timeslot", func(t *testing.T) {
		assert.Equal(t, allSlotIDs, input.Teachers[0].Available)
		assert.Equal(t, allSlotIDs, input.Rooms[0].Available)
		assert.Equal(t, []string{"Mon_08", "Mon_10", "Mon_14", "Tue_08"}, input.Teachers[1].Available)
	})

	t.Run("Audience expansion", func(t *testing.T) {
		// all_groups covers exactly the owning session's groups
		assert.Equal(t, []string{"GI1_A", "GI1_B"}, eventByID["ALGO_CM"].GroupIDs)
		assert.Equal(t, []string{"GI2_A"}, eventByID["RES_CM"].GroupIDs)
		assert.Equal(t, []string{"GI1_B"}, eventByID["ALGO_TD_B"].GroupIDs)
	})

	t.Run("Week expressions", func(t *testing.T) {
		assert.Equal(t, AllWeeks(16), eventByID["ALGO_CM"].Weeks)
		assert.Equal(t, NewWeekSet(1, 2, 3, 4, 5, 6, 7, 8), eventByID["ALGO_TD_A"].Weeks)
		assert.Equal(t, NewWeekSet(9, 10, 11, 12, 13, 14, 15, 16), eventByID["BD_TP_A"].Weeks)
	})

	t.Run("Allowed slots", func(t *testing.T) {
		assert.Equal(t, []string{"Mon_08", "Mon_10", "Tue_08"}, eventByID["BD_CM"].AllowedSlots)
		assert.Nil(t, eventByID["ALGO_CM"].AllowedSlots)
	})

	t.Run("Module and session metadata", func(t *testing.T) {
		assert.Equal(t, "GI1", eventByID["BD_CM"].SessionID)
		assert.Equal(t, "BD", eventByID["BD_CM"].ModuleID)
		assert.Equal(t, 25, eventByID["BD_CM"].MinRoomCapacity)
		assert.Equal(t, 2.0, eventByID["BD_CM"].ModuleHoursPerWeek)
	})
}

func TestInputFromJsonMissingFile(t *testing.T) {
	_, _, err := InputFromJson(feasibleTestDirectory + "does_not_exist.json")
	assert.NotNil(t, err)
}

func TestParseInputDefaults(t *testing.T) {
	// Arrange
	raw := []byte(`{
		"timeslots": [{"id": "Mon_08", "day": "Mon", "start": "08:00", "end": "10:00", "duration_min": 120}],
		"rooms": [{"id": "R1", "capacity": 30, "available": "ALL"}],
		"teachers": [{"id": "T1", "available": "ALL"}],
		"sessions": [{
			"id": "S1",
			"groups": [{"id": "G1", "size": 20, "available": "ALL"}],
			"modules": [{
				"id": "M1",
				"events": [{"id": "E1", "teacher_id": "T1", "audience": {"type": "all_groups"}, "duration_min": 120}]
			}]
		}]
	}`)

	// Act
	config, input, err := ParseInput(raw)

	// Assert
	assert.Nil(t, err)
	assert.Equal(t, "dfs", config.Strategy)
	assert.True(t, config.UseMRV)
	assert.Equal(t, 16, config.TotalWeeks)
	assert.Equal(t, 0, config.MaxIterations)
	assert.Equal(t, time.Duration(0), config.Timeout)

	// Missing weeks means the event runs every week of the term
	assert.Equal(t, AllWeeks(16), input.Events[0].Weeks)
	assert.Nil(t, input.Events[0].AllowedSlots)
}

func TestParseInputErrors(t *testing.T) {
	t.Run("Missing sessions", func(t *testing.T) {
		_, _, err := ParseInput([]byte(`{"timeslots": [], "rooms": [], "teachers": []}`))
		assert.NotNil(t, err)
	})

	t.Run("Unknown audience type", func(t *testing.T) {
		_, _, err := ParseInput([]byte(`{
			"timeslots": [{"id": "Mon_08", "day": "Mon", "start": "08:00", "end": "10:00", "duration_min": 120}],
			"rooms": [], "teachers": [],
			"sessions": [{
				"id": "S1", "groups": [],
				"modules": [{"id": "M1", "events": [
					{"id": "E1", "teacher_id": "T1", "audience": {"type": "everyone"}, "duration_min": 120}
				]}]
			}]
		}`))
		assert.NotNil(t, err)
	})

	t.Run("Invalid weeks expression", func(t *testing.T) {
		_, _, err := ParseInput([]byte(`{
			"timeslots": [{"id": "Mon_08", "day": "Mon", "start": "08:00", "end": "10:00", "duration_min": 120}],
			"rooms": [], "teachers": [],
			"sessions": [{
				"id": "S1", "groups": [],
				"modules": [{"id": "M1", "events": [
					{"id": "E1", "teacher_id": "T1", "audience": {"type": "groups", "group_ids": []}, "duration_min": 120, "weeks": "8-2"}
				]}]
			}]
		}`))
		assert.NotNil(t, err)
	})

	t.Run("Invalid availability value", func(t *testing.T) {
		_, _, err := ParseInput([]byte(`{
			"timeslots": [],
			"rooms": [{"id": "R1", "capacity": 30, "available": "WEEKDAYS"}],
			"teachers": [],
			"sessions": [{"id": "S1", "groups": [], "modules": []}]
		}`))
		assert.NotNil(t, err)
	})
}

func TestFeasibleInstances(t *testing.T) {
	testFiles, err := os.ReadDir(feasibleTestDirectory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	for _, file := range testFiles {
		//** Arrange
		filename := feasibleTestDirectory + file.Name()
		config, input, err := InputFromJson(filename)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}

		problem, err := NewTimetablingProblem(input, config.UseMRV)
		assert.Nil(t, err)

		searcher, err := search.NewSearcher(config.Strategy, search.Limits{
			MaxIterations: config.MaxIterations,
			Timeout:       config.Timeout,
		}, nil)
		assert.Nil(t, err)

		//** Act
		result, err := searcher.Search(problem)

		//** Assert
		assert.Nil(t, err)
		assert.True(t, result.Solved(), filename)

		schedule := result.Path[len(result.Path)-1].(Schedule)
		assert.Equal(t, len(input.Events), schedule.Len(), filename)
		assert.Empty(t, Verify(problem, schedule), filename)
	}
}

func TestInfeasibleInstances(t *testing.T) {
	testFiles, err := os.ReadDir(infeasibleTestDirectory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	for _, file := range testFiles {
		//** Arrange
		filename := infeasibleTestDirectory + file.Name()
		config, input, err := InputFromJson(filename)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}

		problem, err := NewTimetablingProblem(input, config.UseMRV)
		assert.Nil(t, err)

		searcher, err := search.NewSearcher(config.Strategy, search.Limits{}, nil)
		assert.Nil(t, err)

		//** Act
		result, err := searcher.Search(problem)

		//** Assert
		assert.Nil(t, err)
		assert.False(t, result.Solved(), filename)
		assert.Nil(t, result.Path, filename)
	}
}
