package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/limaJavier/schedsearch/internal/analysis"
	"github.com/limaJavier/schedsearch/internal/backup"
	"github.com/limaJavier/schedsearch/internal/config"
	"github.com/limaJavier/schedsearch/internal/export"
	"github.com/limaJavier/schedsearch/pkg/model"
	"github.com/limaJavier/schedsearch/pkg/search"
)

func main() {
	defaults := config.Load()

	// Define arguments
	filePathPtr := flag.String("file", "", "Path to the input file")
	outFilePathPtr := flag.String("out", "", "Path to the file where the output will be written; if empty, it'll be written into the Standard Output")
	strategyPtr := flag.String("strategy", "", `Search strategy to use. Allowed values are: "dfs", "bfs", "ucs" and "astar"; if empty, the environment or the input file's config decides`)
	mrvPtr := flag.Bool("mrv", true, "Schedule the most constrained event first")
	maxIterationsPtr := flag.Int("max-iterations", 0, "Iteration budget for the search, where 0 means unlimited")
	timeoutPtr := flag.Duration("timeout", 0, "Wall-clock budget for the search, where 0 means unlimited")
	graphPtr := flag.String("graph", "", "Path to a DOT file recording the explored search graph; forces the dfs strategy")
	csvPtr := flag.String("csv", "", "Path to a CSV export of the schedule")
	icalPtr := flag.String("ical", "", "Path to an iCal export of the schedule")
	htmlPtr := flag.String("html", "", "Path to an HTML grid export of the schedule")
	statsPtr := flag.String("stats", "", "Path to a JSON statistics report of the schedule")
	conflictsPtr := flag.Bool("conflicts", false, "Print the conflict analysis report")
	qualityPtr := flag.Bool("quality", false, "Print the schedule quality report")
	prefsPtr := flag.String("prefs", "", "Path to a preferences file to score the schedule against")
	backupPtr := flag.Bool("backup", false, "Snapshot the input and output files after the run")
	flag.Parse()

	flagsSet := map[string]bool{}
	flag.Visit(func(given *flag.Flag) { flagsSet[given.Name] = true })

	filePath := *filePathPtr
	outFile := *outFilePathPtr
	if filePath == "" {
		log.Fatal("an input file must be specified")
	}

	// Extract input; the file's config section carries per-instance defaults
	runConfig, input, err := model.InputFromJson(filePath)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	// Environment variables override the input file's config, and explicit
	// flags override both
	applyEnvironment(defaults, &runConfig)
	if *strategyPtr != "" {
		runConfig.Strategy = strings.ToLower(*strategyPtr)
	}
	if flagsSet["mrv"] {
		runConfig.UseMRV = *mrvPtr
	}
	if flagsSet["max-iterations"] {
		runConfig.MaxIterations = *maxIterationsPtr
	}
	if flagsSet["timeout"] {
		runConfig.Timeout = *timeoutPtr
	}
	if *graphPtr != "" && runConfig.Strategy != "dfs" {
		log.Printf("graph recording forces the dfs strategy (was %v)", runConfig.Strategy)
		runConfig.Strategy = "dfs"
	}

	// Validate arguments
	if !slices.Contains(search.Strategies(), runConfig.Strategy) {
		log.Fatalf("%v is not a valid strategy", runConfig.Strategy)
	}

	// Build the problem
	problem, err := model.NewTimetablingProblem(input, runConfig.UseMRV)
	if err != nil {
		log.Fatalf("cannot build problem: %v", err)
	}

	// Events with an empty domain make the instance infeasible before any
	// search; report them instead of wandering the state space
	if unschedulable := problem.ZeroDomainEvents(); len(unschedulable) > 0 {
		log.Printf("instance is infeasible, events without any valid placement: %v", strings.Join(unschedulable, ", "))
		writeOutput(runConfig, problem, search.Result{Strategy: runConfig.Strategy}, outFile)
		os.Exit(10)
	}

	limits := search.Limits{MaxIterations: runConfig.MaxIterations, Timeout: runConfig.Timeout}
	var searcher search.Searcher
	if *graphPtr != "" {
		searcher = search.NewDFSGraphSearcher(limits)
	} else {
		searcher, err = search.NewSearcher(runConfig.Strategy, limits, nil)
		if err != nil {
			log.Fatalf("cannot initialize searcher: %v", err)
		}
	}

	// Search
	result, err := searcher.Search(problem)
	if err != nil {
		log.Fatalf("an error occurred during the search: %v", err)
	}

	if *graphPtr != "" && result.Graph != nil {
		if err := os.WriteFile(*graphPtr, []byte(result.Graph.ToDOT()), 0666); err != nil {
			log.Fatalf("cannot write search graph: %v", err)
		}
		log.Printf("search graph written to %v (%v nodes, %v edges)", *graphPtr, result.Graph.Nodes(), result.Graph.Edges())
	}

	if !result.Solved() {
		fmt.Println("No schedule found.")
		printStatistics(result)
		writeOutput(runConfig, problem, result, outFile)
		runBackup(*backupPtr, defaults.BackupDir, filePath, outFile)
		os.Exit(20)
	}

	schedule := result.Path[len(result.Path)-1].(model.Schedule)

	// Verify the solution against the hard constraints before reporting it
	if violations := model.Verify(problem, schedule); len(violations) > 0 {
		log.Fatalf("solution fails verification: %v", strings.Join(violations, "; "))
	}

	fmt.Print(model.FormatSchedule(problem, schedule))
	printStatistics(result)
	writeOutput(runConfig, problem, result, outFile)

	//** Optional analysis and exports
	if *conflictsPtr {
		detector := analysis.NewDetector(problem)
		fmt.Println(analysis.RenderConflictReport(detector.Analyze(schedule)))
	}
	if *qualityPtr {
		validator := analysis.NewValidator(problem)
		fmt.Println(analysis.RenderQualityReport(validator.Assess(schedule)))
	}
	if *prefsPtr != "" {
		preferences, err := analysis.LoadPreferences(*prefsPtr)
		if err != nil {
			log.Fatalf("cannot load preferences: %v", err)
		}
		fmt.Printf("Preference satisfaction: %.0f%%\n", preferences.Evaluate(problem, schedule)*100)
	}
	if *csvPtr != "" {
		if err := export.CSV(*csvPtr, problem, schedule); err != nil {
			log.Fatalf("cannot write csv export: %v", err)
		}
	}
	if *icalPtr != "" {
		if err := export.ICal(*icalPtr, problem, schedule, export.AcademicYearStart(time.Now())); err != nil {
			log.Fatalf("cannot write ical export: %v", err)
		}
	}
	if *htmlPtr != "" {
		title := runConfig.WeekName
		if title == "" {
			title = "Timetable"
		}
		if err := export.HTMLGrid(*htmlPtr, title, problem, schedule); err != nil {
			log.Fatalf("cannot write html export: %v", err)
		}
	}
	if *statsPtr != "" {
		if err := export.StatisticsReport(*statsPtr, problem, schedule); err != nil {
			log.Fatalf("cannot write statistics report: %v", err)
		}
	}

	runBackup(*backupPtr, defaults.BackupDir, filePath, outFile)
}

// applyEnvironment copies over the defaults whose environment variable is
// actually set, so an unset variable never shadows the input file's config.
func applyEnvironment(defaults config.Config, runConfig *model.RunConfig) {
	if _, set := os.LookupEnv(config.EnvStrategy); set {
		runConfig.Strategy = defaults.Strategy
	}
	if _, set := os.LookupEnv(config.EnvMaxIterations); set {
		runConfig.MaxIterations = defaults.MaxIterations
	}
	if _, set := os.LookupEnv(config.EnvTimeout); set {
		runConfig.Timeout = defaults.Timeout
	}
}

func printStatistics(result search.Result) {
	fmt.Printf("Strategy: %v\n", result.Strategy)
	fmt.Printf("Iterations: %v\n", result.Iterations)
	fmt.Printf("Explored: %v\n", result.Explored)
	fmt.Printf("Max frontier: %v\n", result.MaxFrontier)
	if result.Solved() {
		fmt.Printf("Cost: %v\n", result.Cost)
	}
	fmt.Printf("Elapsed: %v\n", result.Elapsed)
}

func writeOutput(runConfig model.RunConfig, problem *model.TimetablingProblem, result search.Result, outFile string) {
	output := model.BuildOutput(runConfig, problem, result)
	if err := model.WriteOutput(output, outFile); err != nil {
		log.Fatalf("an error occurred while writing to the output file: %v", err)
	}
}

func runBackup(enabled bool, dir, inputFile, outputFile string) {
	if !enabled {
		return
	}
	manager := backup.NewManager(dir)
	version, err := manager.Create(inputFile, outputFile, "snapshot after solve")
	if err != nil {
		log.Fatalf("cannot create backup: %v", err)
	}
	log.Printf("backup %v created under %v", version, dir)
}
