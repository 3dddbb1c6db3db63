package export

import (
	"bytes"
	"html/template"
	"os"
	"slices"
	"strings"

	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/samber/lo"
)

type htmlEvent struct {
	EventID  string
	ModuleID string
	Teacher  string
	Groups   string
	Room     string
	Weeks    string
}

type htmlCell struct {
	Events []htmlEvent
}

type htmlRow struct {
	Time  string
	Cells []htmlCell
}

type htmlPage struct {
	Title           string
	Days            []string
	Rows            []htmlRow
	EventsScheduled int
	EventsTotal     int
}

var gridTemplate = template.Must(template.New("grid").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 20px; background: #f4f4f8; }
h1 { margin-bottom: 4px; }
.meta { color: #555; margin-bottom: 16px; }
table { border-collapse: collapse; width: 100%; background: white; }
th, td { border: 1px solid #ccc; padding: 6px; vertical-align: top; }
th { background: #2b3a67; color: white; }
td.time { background: #eef; font-weight: bold; white-space: nowrap; }
.event { background: #e8f0fe; border-left: 4px solid #2b3a67; border-radius: 4px; padding: 6px; margin-bottom: 6px; }
.event .title { font-weight: bold; }
.event .weeks { color: #555; font-size: 0.85em; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">{{.EventsScheduled}}/{{.EventsTotal}} events scheduled</p>
<table>
<thead>
<tr><th class="time">Time</th>{{range .Days}}<th>{{.}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Rows}}<tr>
<td class="time">{{.Time}}</td>
{{range .Cells}}<td>
{{range .Events}}<div class="event">
<div class="title">{{.EventID}}</div>
<div>{{.ModuleID}} | {{.Teacher}}</div>
<div>{{.Groups}}</div>
<div>{{.Room}}</div>
<div class="weeks">weeks {{.Weeks}}</div>
</div>
{{end}}</td>
{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// HTMLGrid writes a weekly timetable grid (time rows by day columns) for
// viewing in a browser.
func HTMLGrid(file, title string, problem *model.TimetablingProblem, schedule model.Schedule) error {
	rows := buildRows(problem, schedule)

	days := lo.Uniq(lo.Map(rows, func(row row, _ int) string { return row.Slot.Day }))
	slices.SortFunc(days, func(a, b string) int {
		if comparison := model.DayIndex(a) - model.DayIndex(b); comparison != 0 {
			return comparison
		}
		return strings.Compare(a, b)
	})
	if len(days) == 0 {
		days = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	}

	timeLabel := func(slot model.TimeSlot) string { return slot.Start + "-" + slot.End }
	times := lo.Uniq(lo.Map(rows, func(row row, _ int) string { return timeLabel(row.Slot) }))
	slices.Sort(times)

	// Bucket events by time label and day
	grid := make(map[string]map[string][]htmlEvent)
	for _, row := range rows {
		label := timeLabel(row.Slot)
		if grid[label] == nil {
			grid[label] = make(map[string][]htmlEvent)
		}
		grid[label][row.Slot.Day] = append(grid[label][row.Slot.Day], htmlEvent{
			EventID:  row.Event.ID,
			ModuleID: row.Event.ModuleID,
			Teacher:  row.Event.TeacherID,
			Groups:   strings.Join(row.Event.GroupIDs, ", "),
			Room:     row.Room.ID,
			Weeks:    row.Event.Weeks.Format(),
		})
	}

	page := htmlPage{
		Title:           title,
		Days:            days,
		EventsScheduled: len(rows),
		EventsTotal:     len(problem.Events()),
	}
	for _, label := range times {
		gridRow := htmlRow{Time: label}
		for _, day := range days {
			gridRow.Cells = append(gridRow.Cells, htmlCell{Events: grid[label][day]})
		}
		page.Rows = append(page.Rows, gridRow)
	}

	var buffer bytes.Buffer
	if err := gridTemplate.Execute(&buffer, page); err != nil {
		return err
	}
	return os.WriteFile(file, buffer.Bytes(), 0666)
}
