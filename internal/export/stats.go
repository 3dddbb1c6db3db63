package export

import (
	"encoding/json"
	"os"
	"slices"

	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/samber/lo"
)

// Statistics summarizes how a schedule uses its teachers, rooms and days.
type Statistics struct {
	EventsScheduled     int                `json:"events_scheduled"`
	UniqueTeachers      int                `json:"unique_teachers"`
	UniqueRooms         int                `json:"unique_rooms"`
	UniqueModules       int                `json:"unique_modules"`
	AvgEventsPerTeacher float64            `json:"avg_events_per_teacher"`
	TeacherHours        map[string]float64 `json:"teacher_hours"`
	RoomUsage           map[string]int     `json:"room_usage"`
	MostUsedRoom        string             `json:"most_used_room"`
	EventsPerDay        map[string]int     `json:"events_per_day"`
	PeakDay             string             `json:"peak_day"`
	AvgEventsPerDay     float64            `json:"avg_events_per_day"`
}

func ComputeStatistics(problem *model.TimetablingProblem, schedule model.Schedule) Statistics {
	rows := buildRows(problem, schedule)

	teacherHours := make(map[string]float64)
	roomUsage := make(map[string]int)
	eventsPerDay := make(map[string]int)
	modules := make(map[string]bool)
	for _, row := range rows {
		teacherHours[row.Event.TeacherID] += float64(row.Event.DurationMin) / 60
		roomUsage[row.Room.ID]++
		eventsPerDay[row.Slot.Day]++
		modules[row.Event.ModuleID] = true
	}

	statistics := Statistics{
		EventsScheduled: len(rows),
		UniqueTeachers:  len(teacherHours),
		UniqueRooms:     len(roomUsage),
		UniqueModules:   len(modules),
		TeacherHours:    teacherHours,
		RoomUsage:       roomUsage,
		MostUsedRoom:    busiest(roomUsage),
		EventsPerDay:    eventsPerDay,
		PeakDay:         busiest(eventsPerDay),
	}
	if len(teacherHours) > 0 {
		statistics.AvgEventsPerTeacher = float64(len(rows)) / float64(len(teacherHours))
	}
	if len(eventsPerDay) > 0 {
		statistics.AvgEventsPerDay = float64(len(rows)) / float64(len(eventsPerDay))
	}
	return statistics
}

// StatisticsReport writes the statistics as indented JSON.
func StatisticsReport(file string, problem *model.TimetablingProblem, schedule model.Schedule) error {
	bytes, err := json.MarshalIndent(ComputeStatistics(problem, schedule), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, bytes, 0666)
}

// busiest returns the key with the highest count, smallest key on ties.
func busiest(counts map[string]int) string {
	keys := lo.Keys(counts)
	slices.Sort(keys)

	best, bestCount := "", -1
	for _, key := range keys {
		if counts[key] > bestCount {
			best, bestCount = key, counts[key]
		}
	}
	return best
}
