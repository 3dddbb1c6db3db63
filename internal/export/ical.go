package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/limaJavier/schedsearch/pkg/model"
)

var dayOffsets = map[string]int{
	"Mon": 0, "Tue": 1, "Wed": 2, "Thu": 3, "Fri": 4, "Sat": 5, "Sun": 6,
}

const icalTimestamp = "20060102T150405"

// ICal renders the schedule as an RFC 5545 calendar with one VEVENT per
// assignment per active week. termStart anchors week 1 and should fall on
// the Monday convention of the timeslot days.
func ICal(file string, problem *model.TimetablingProblem, schedule model.Schedule, termStart time.Time) error {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//schedsearch//Timetable Export//EN",
		"CALSCALE:GREGORIAN",
	}

	for _, row := range buildRows(problem, schedule) {
		start, err := time.Parse("15:04", row.Slot.Start)
		if err != nil {
			return fmt.Errorf("timeslot %v has invalid start time: %v", row.Slot.ID, err)
		}
		end, err := time.Parse("15:04", row.Slot.End)
		if err != nil {
			return fmt.Errorf("timeslot %v has invalid end time: %v", row.Slot.ID, err)
		}

		for _, week := range row.Event.Weeks.Sorted() {
			day := termStart.AddDate(0, 0, (week-1)*7+dayOffsets[row.Slot.Day])
			eventStart := time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, termStart.Location())
			eventEnd := time.Date(day.Year(), day.Month(), day.Day(), end.Hour(), end.Minute(), 0, 0, termStart.Location())

			lines = append(lines,
				"BEGIN:VEVENT",
				fmt.Sprintf("UID:%v-week%v@schedsearch", row.Event.ID, week),
				fmt.Sprintf("DTSTART:%v", eventStart.Format(icalTimestamp)),
				fmt.Sprintf("DTEND:%v", eventEnd.Format(icalTimestamp)),
				fmt.Sprintf("SUMMARY:%v - %v", row.Event.ID, row.Event.ModuleID),
				fmt.Sprintf("DESCRIPTION:Teacher: %v\\nGroups: %v\\nStudents: %v",
					row.Event.TeacherID, strings.Join(row.Event.GroupIDs, ", "), problem.Demand(row.Event.ID)),
				fmt.Sprintf("LOCATION:%v", row.Room.ID),
				"END:VEVENT",
			)
		}
	}

	lines = append(lines, "END:VCALENDAR")
	return os.WriteFile(file, []byte(strings.Join(lines, "\r\n")+"\r\n"), 0666)
}

// AcademicYearStart is September 1st of the academic year containing now,
// the default anchor for week 1.
func AcademicYearStart(now time.Time) time.Time {
	year := now.Year()
	if now.Month() < time.September {
		year--
	}
	return time.Date(year, time.September, 1, 0, 0, 0, 0, now.Location())
}
