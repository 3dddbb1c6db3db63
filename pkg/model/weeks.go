package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// WeekSet holds the academic weeks an event is active in. Two events conflict
// on a resource only when their week sets intersect, so events on disjoint
// weeks may share a timeslot and room.
type WeekSet map[int]bool

func NewWeekSet(weeks ...int) WeekSet {
	set := make(WeekSet, len(weeks))
	for _, week := range weeks {
		set[week] = true
	}
	return set
}

// AllWeeks covers weeks 1 through total.
func AllWeeks(total int) WeekSet {
	set := make(WeekSet, total)
	for week := 1; week <= total; week++ {
		set[week] = true
	}
	return set
}

func (weeks WeekSet) Intersects(other WeekSet) bool {
	if len(other) < len(weeks) {
		weeks, other = other, weeks
	}
	for week := range weeks {
		if other[week] {
			return true
		}
	}
	return false
}

func (weeks WeekSet) Sorted() []int {
	sorted := make([]int, 0, len(weeks))
	for week := range weeks {
		sorted = append(sorted, week)
	}
	slices.Sort(sorted)
	return sorted
}

// Format compacts the set into ranges, e.g. {1..8,10} becomes "1-8,10".
func (weeks WeekSet) Format() string {
	sorted := weeks.Sorted()
	if len(sorted) == 0 {
		return ""
	}

	var parts []string
	rangeStart, previous := sorted[0], sorted[0]
	flush := func() {
		if rangeStart == previous {
			parts = append(parts, strconv.Itoa(rangeStart))
		} else {
			parts = append(parts, fmt.Sprintf("%v-%v", rangeStart, previous))
		}
	}

	for _, week := range sorted[1:] {
		if week == previous+1 {
			previous = week
			continue
		}
		flush()
		rangeStart, previous = week, week
	}
	flush()
	return strings.Join(parts, ",")
}

// ParseWeeks accepts the week notations of the input format: a list of week
// numbers, a range expression such as "1-8" or "1-4,9-12", the keyword "all",
// or nil, which also means every week of the term.
func ParseWeeks(value any, totalWeeks int) (WeekSet, error) {
	switch weeks := value.(type) {
	case nil:
		return AllWeeks(totalWeeks), nil
	case []any:
		set := make(WeekSet, len(weeks))
		for _, item := range weeks {
			number, ok := item.(float64) // JSON numbers decode as float64
			if !ok || number != float64(int(number)) {
				return nil, fmt.Errorf("%v is not a valid week number", item)
			}
			set[int(number)] = true
		}
		return set, nil
	case string:
		return parseWeekExpression(weeks, totalWeeks)
	}
	return nil, fmt.Errorf("%v is not a valid weeks value", value)
}

func parseWeekExpression(expression string, totalWeeks int) (WeekSet, error) {
	if strings.EqualFold(strings.TrimSpace(expression), "all") {
		return AllWeeks(totalWeeks), nil
	}

	set := WeekSet{}
	for _, part := range strings.Split(expression, ",") {
		part = strings.TrimSpace(part)

		bounds := strings.SplitN(part, "-", 2)
		from, err := strconv.Atoi(strings.TrimSpace(bounds[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid week expression %q: %v", expression, err)
		}

		to := from
		if len(bounds) == 2 {
			to, err = strconv.Atoi(strings.TrimSpace(bounds[1]))
			if err != nil {
				return nil, fmt.Errorf("invalid week expression %q: %v", expression, err)
			}
		}
		if to < from {
			return nil, fmt.Errorf("invalid week range %q: end before start", part)
		}

		for week := from; week <= to; week++ {
			set[week] = true
		}
	}
	return set, nil
}
