package analysis

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/samber/lo"
)

// QualityMetric scores one aspect of a schedule. Score runs from 0 to 1;
// Weight sets how much the aspect contributes to the overall score.
type QualityMetric struct {
	Name        string
	Score       float64
	Weight      float64
	Description string
}

type QualityReport struct {
	OverallScore    float64
	Metrics         []QualityMetric
	Recommendations []string
	Strengths       []string
	Weaknesses      []string
}

type Validator interface {
	Assess(schedule model.Schedule) QualityReport
}

func NewValidator(problem *model.TimetablingProblem) Validator {
	return &validator{problem: problem}
}

type validator struct {
	problem *model.TimetablingProblem
}

func (validator *validator) Assess(schedule model.Schedule) QualityReport {
	assignments := schedule.Assignments()

	metrics := []QualityMetric{
		validator.constraintAdherence(assignments),
		validator.resourceUtilization(assignments),
		validator.timeDistribution(assignments),
		validator.workloadBalance(assignments),
		validator.compactness(assignments),
		validator.roomEfficiency(assignments),
		validator.teacherSatisfaction(assignments),
		validator.studentConvenience(assignments),
	}

	weightedSum := lo.Reduce(metrics, func(sum float64, metric QualityMetric, _ int) float64 {
		return sum + metric.Score*metric.Weight
	}, 0)
	totalWeight := lo.Reduce(metrics, func(sum float64, metric QualityMetric, _ int) float64 {
		return sum + metric.Weight
	}, 0)

	return QualityReport{
		OverallScore:    weightedSum / totalWeight,
		Metrics:         metrics,
		Recommendations: recommendations(metrics),
		Strengths: lo.FilterMap(metrics, func(metric QualityMetric, _ int) (string, bool) {
			return fmt.Sprintf("%v: %v", metric.Name, metric.Description), metric.Score >= 0.8
		}),
		Weaknesses: lo.FilterMap(metrics, func(metric QualityMetric, _ int) (string, bool) {
			return fmt.Sprintf("%v: %v", metric.Name, metric.Description), metric.Score < 0.6
		}),
	}
}

func (validator *validator) constraintAdherence(assignments []model.Assignment) QualityMetric {
	violations, checks := 0, 0
	for _, assignment := range assignments {
		event, _ := validator.problem.Event(assignment.EventID)
		slot, _ := validator.problem.TimeSlot(assignment.SlotID)
		room, _ := validator.problem.Room(assignment.RoomID)
		checks += 4

		if event.DurationMin != slot.DurationMin {
			violations++
		}
		if !validator.problem.TeacherAvailableAt(event.TeacherID, slot.ID) {
			violations++
		}
		if !validator.problem.RoomAvailableAt(room.ID, slot.ID) {
			violations++
		}
		if validator.problem.RequiredCapacity(event.ID) > room.Capacity {
			violations++
		}
	}

	score := 1.0
	if checks > 0 {
		score = 1 - float64(violations)/float64(checks)
	}
	return QualityMetric{
		Name:        "Constraint Adherence",
		Score:       score,
		Weight:      1.0,
		Description: fmt.Sprintf("hard constraint violations: %v/%v", violations, checks),
	}
}

func (validator *validator) resourceUtilization(assignments []model.Assignment) QualityMetric {
	usage := make(map[string]int)
	for _, assignment := range assignments {
		usage[assignment.RoomID]++
	}

	rates := make([]float64, 0)
	for _, room := range validator.problem.Rooms() {
		if len(room.Available) > 0 {
			rates = append(rates, float64(usage[room.ID])/float64(len(room.Available)))
		}
	}

	average := mean(rates)
	return QualityMetric{
		Name:        "Resource Utilization",
		Score:       math.Min(average*1.5, 1),
		Weight:      1.0,
		Description: fmt.Sprintf("average room utilization: %.0f%%", average*100),
	}
}

func (validator *validator) timeDistribution(assignments []model.Assignment) QualityMetric {
	usage := make(map[string]int)
	for _, assignment := range assignments {
		usage[assignment.SlotID]++
	}

	counts := lo.Map(lo.Values(usage), func(count int, _ int) float64 { return float64(count) })
	evenness := 1.0
	if len(counts) > 1 && mean(counts) > 0 {
		evenness = 1 - math.Min(sampleStdDev(counts)/mean(counts), 1)
	}

	return QualityMetric{
		Name:        "Time Distribution",
		Score:       evenness,
		Weight:      0.8,
		Description: fmt.Sprintf("event distribution evenness: %.0f%%", evenness*100),
	}
}

func (validator *validator) workloadBalance(assignments []model.Assignment) QualityMetric {
	teacherLoads := make(map[string]float64)
	groupLoads := make(map[string]float64)
	for _, assignment := range assignments {
		event, _ := validator.problem.Event(assignment.EventID)
		hours := float64(event.DurationMin) / 60

		teacherLoads[event.TeacherID] += hours
		for _, groupID := range event.GroupIDs {
			groupLoads[groupID] += hours
		}
	}

	balance := func(loads map[string]float64) float64 {
		values := lo.Values(loads)
		if len(values) <= 1 || mean(values) == 0 {
			return 1
		}
		return math.Max(0, 1-sampleStdDev(values)/mean(values))
	}

	teacherBalance, groupBalance := balance(teacherLoads), balance(groupLoads)
	return QualityMetric{
		Name:        "Workload Balance",
		Score:       (teacherBalance + groupBalance) / 2,
		Weight:      0.9,
		Description: fmt.Sprintf("teacher balance: %.0f%%, group balance: %.0f%%", teacherBalance*100, groupBalance*100),
	}
}

func (validator *validator) compactness(assignments []model.Assignment) QualityMetric {
	starts := make(map[string][]string) // group+day to start times
	for _, assignment := range assignments {
		event, _ := validator.problem.Event(assignment.EventID)
		slot, _ := validator.problem.TimeSlot(assignment.SlotID)
		for _, groupID := range event.GroupIDs {
			key := groupID + "_" + slot.Day
			starts[key] = append(starts[key], slot.Start)
		}
	}

	gaps, possible := 0, 0
	for _, times := range starts {
		if len(times) <= 1 {
			continue
		}
		slices.Sort(times)
		possible += len(times) - 1
		for i := 1; i < len(times); i++ {
			if startHour(times[i])-startHour(times[i-1]) > 2 {
				gaps++
			}
		}
	}

	score := 1.0
	if possible > 0 {
		score = 1 - float64(gaps)/float64(possible)
	}
	return QualityMetric{
		Name:        "Schedule Compactness",
		Score:       score,
		Weight:      0.7,
		Description: fmt.Sprintf("gaps over two hours: %v/%v", gaps, possible),
	}
}

func (validator *validator) roomEfficiency(assignments []model.Assignment) QualityMetric {
	efficiencies := make([]float64, 0, len(assignments))
	for _, assignment := range assignments {
		room, _ := validator.problem.Room(assignment.RoomID)
		if room.Capacity > 0 {
			required := validator.problem.RequiredCapacity(assignment.EventID)
			efficiencies = append(efficiencies, math.Min(float64(required)/float64(room.Capacity), 1))
		}
	}

	average := mean(efficiencies)
	return QualityMetric{
		Name:        "Room Efficiency",
		Score:       average,
		Weight:      0.6,
		Description: fmt.Sprintf("average room space efficiency: %.0f%%", average*100),
	}
}

func (validator *validator) teacherSatisfaction(assignments []model.Assignment) QualityMetric {
	type teacherStats struct {
		classes int
		days    map[string]bool
		offPeak int
	}
	stats := make(map[string]*teacherStats)

	for _, assignment := range assignments {
		event, _ := validator.problem.Event(assignment.EventID)
		slot, _ := validator.problem.TimeSlot(assignment.SlotID)

		entry, ok := stats[event.TeacherID]
		if !ok {
			entry = &teacherStats{days: make(map[string]bool)}
			stats[event.TeacherID] = entry
		}
		entry.classes++
		entry.days[slot.Day] = true
		if hour := startHour(slot.Start); hour < 8 || hour >= 18 {
			entry.offPeak++
		}
	}

	scores := make([]float64, 0, len(stats))
	for _, entry := range stats {
		score := 1.0
		if len(entry.days) > 4 {
			score -= 0.2
		}
		if entry.classes > 0 {
			score -= float64(entry.offPeak) * 0.1 / float64(entry.classes)
		}
		scores = append(scores, math.Max(score, 0))
	}

	average := 1.0
	if len(scores) > 0 {
		average = mean(scores)
	}
	return QualityMetric{
		Name:        "Teacher Satisfaction",
		Score:       average,
		Weight:      0.6,
		Description: fmt.Sprintf("average teacher satisfaction: %.0f%%", average*100),
	}
}

func (validator *validator) studentConvenience(assignments []model.Assignment) QualityMetric {
	type groupStats struct {
		days    map[string]bool
		rooms   map[string]bool
		classes int
		offPeak int
	}
	stats := make(map[string]*groupStats)

	for _, assignment := range assignments {
		event, _ := validator.problem.Event(assignment.EventID)
		slot, _ := validator.problem.TimeSlot(assignment.SlotID)

		for _, groupID := range event.GroupIDs {
			entry, ok := stats[groupID]
			if !ok {
				entry = &groupStats{days: make(map[string]bool), rooms: make(map[string]bool)}
				stats[groupID] = entry
			}
			entry.days[slot.Day] = true
			entry.rooms[assignment.RoomID] = true
			entry.classes++
			if hour := startHour(slot.Start); hour < 8 || hour >= 18 {
				entry.offPeak++
			}
		}
	}

	scores := make([]float64, 0, len(stats))
	for _, entry := range stats {
		score := 1.0
		if len(entry.days) <= 3 {
			score += 0.1
		} else if len(entry.days) > 5 {
			score -= 0.2
		}
		if len(entry.rooms) > 3 {
			score -= 0.1
		}
		if entry.classes > 0 {
			score -= float64(entry.offPeak) * 0.15 / float64(entry.classes)
		}
		scores = append(scores, math.Max(score, 0))
	}

	average := 1.0
	if len(scores) > 0 {
		average = mean(scores)
	}
	return QualityMetric{
		Name:        "Student Convenience",
		Score:       math.Min(average, 1),
		Weight:      0.5,
		Description: fmt.Sprintf("average student convenience: %.0f%%", math.Min(average, 1)*100),
	}
}

func recommendations(metrics []QualityMetric) []string {
	threshold := func(name string, low float64) bool {
		metric, found := lo.Find(metrics, func(metric QualityMetric) bool { return metric.Name == name })
		return found && metric.Score < low
	}

	recommendations := make([]string, 0)
	if threshold("Constraint Adherence", 0.8) {
		recommendations = append(recommendations, "address hard constraint violations first, they make the schedule invalid")
	}
	if threshold("Resource Utilization", 0.4) {
		recommendations = append(recommendations, "consider adding more events to better utilize available rooms and timeslots")
	}
	if threshold("Workload Balance", 0.6) {
		recommendations = append(recommendations, "redistribute workload more evenly across teachers and groups")
	}
	if threshold("Schedule Compactness", 0.5) {
		recommendations = append(recommendations, "reduce gaps between classes by scheduling consecutive timeslots")
	}
	if threshold("Room Efficiency", 0.6) {
		recommendations = append(recommendations, "use appropriately sized rooms, avoid large rooms for small classes")
	}
	if threshold("Teacher Satisfaction", 0.7) {
		recommendations = append(recommendations, "reduce early and late classes and spread teachers across fewer days")
	}
	return recommendations
}

// RenderQualityReport turns a report into readable text, metrics sorted from
// best to worst.
func RenderQualityReport(report QualityReport) string {
	var builder strings.Builder
	builder.WriteString("SCHEDULE QUALITY REPORT\n")
	builder.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&builder, "\nOVERALL SCORE: %.0f%%\n", report.OverallScore*100)

	switch {
	case report.OverallScore >= 0.8:
		builder.WriteString("quality level: EXCELLENT\n")
	case report.OverallScore >= 0.6:
		builder.WriteString("quality level: GOOD\n")
	case report.OverallScore >= 0.4:
		builder.WriteString("quality level: FAIR\n")
	default:
		builder.WriteString("quality level: POOR\n")
	}

	metrics := slices.Clone(report.Metrics)
	slices.SortFunc(metrics, func(a, b QualityMetric) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})

	builder.WriteString("\nDETAILED METRICS\n")
	builder.WriteString(strings.Repeat("-", 30) + "\n")
	for _, metric := range metrics {
		filled := int(metric.Score * 10)
		bar := strings.Repeat("#", filled) + strings.Repeat(".", 10-filled)
		fmt.Fprintf(&builder, "%-22v [%v] %v%%\n", metric.Name, bar, strconv.Itoa(int(math.Round(metric.Score*100))))
		fmt.Fprintf(&builder, "%-22v %v\n", "", metric.Description)
	}

	writeSection := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&builder, "\n%v\n", title)
		builder.WriteString(strings.Repeat("-", len(title)) + "\n")
		for _, line := range lines {
			fmt.Fprintf(&builder, "  %v\n", line)
		}
	}
	writeSection("STRENGTHS", report.Strengths)
	writeSection("AREAS FOR IMPROVEMENT", report.Weaknesses)
	writeSection("RECOMMENDATIONS", report.Recommendations)

	return builder.String()
}

//** Small statistics helpers

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return lo.Sum(values) / float64(len(values))
}

func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	average := mean(values)
	sum := lo.Reduce(values, func(sum, value float64, _ int) float64 {
		return sum + (value-average)*(value-average)
	}, 0)
	return math.Sqrt(sum / float64(len(values)-1))
}

func startHour(start string) int {
	hour, err := strconv.Atoi(strings.SplitN(start, ":", 2)[0])
	if err != nil {
		return 0
	}
	return hour
}
