package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/limaJavier/schedsearch/pkg/model"
)

var csvHeader = []string{
	"Event", "Module", "Teacher", "Groups", "Day", "Start", "End",
	"Room", "DurationMin", "Weeks", "Students", "RoomCapacity",
	"Session", "RequiredCapacity",
}

// CSV writes one record per assignment, ordered by day and start time.
func CSV(file string, problem *model.TimetablingProblem, schedule model.Schedule) error {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range buildRows(problem, schedule) {
		record := []string{
			row.Event.ID,
			row.Event.ModuleID,
			row.Event.TeacherID,
			strings.Join(row.Event.GroupIDs, ", "),
			row.Slot.Day,
			row.Slot.Start,
			row.Slot.End,
			row.Room.ID,
			strconv.Itoa(row.Event.DurationMin),
			row.Event.Weeks.Format(),
			strconv.Itoa(problem.Demand(row.Event.ID)),
			strconv.Itoa(row.Room.Capacity),
			row.Event.SessionID,
			strconv.Itoa(problem.RequiredCapacity(row.Event.ID)),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return os.WriteFile(file, buffer.Bytes(), 0666)
}
