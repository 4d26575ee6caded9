package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"medlens/pkg/common"
	"medlens/pkg/medlens/api"
	"medlens/pkg/medlens/domain"
)

func main() {
	err := mainImpl()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func mainImpl() error {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	casesPath := flag.String("cases", "cases.yaml", "path to the yaml case list")
	outDir := flag.String("out", "evaluation", "directory for the JSON results and markdown summary")
	flag.Parse()

	config, err := common.LoadConfig(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		config = common.NewConfig()
	}
	cases, err := loadCases(*casesPath)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return fmt.Errorf("no cases found in %s", *casesPath)
	}
	medLens := api.NewAPI(config)
	results, summary := medLens.Evaluate(cases)

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return err
	}
	runID := uuid.NewString()
	resultsPath := filepath.Join(*outDir, "results-"+runID+".json")
	if err := writeJSON(resultsPath, results); err != nil {
		return err
	}
	summaryPath := filepath.Join(*outDir, "summary-"+runID+".md")
	if err := os.WriteFile(summaryPath, []byte(renderSummary(runID, summary, results)), 0644); err != nil {
		return err
	}
	fmt.Println("results written to " + resultsPath)
	fmt.Println("summary written to " + summaryPath)
	return nil
}

func loadCases(path string) ([]domain.EvaluationCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cases []domain.EvaluationCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func renderSummary(runID string, summary *domain.EvaluationSummary, results []*domain.EvaluationResult) string {
	var b []byte
	appendLine := func(format string, args ...any) {
		b = append(b, fmt.Sprintf(format+"\n", args...)...)
	}
	appendLine("# MedLens evaluation run %s", runID)
	appendLine("")
	appendLine("| metric | value |")
	appendLine("|---|---|")
	appendLine("| total cases | %d |", summary.TotalCases)
	appendLine("| successful cases | %d |", summary.SuccessfulCases)
	appendLine("| success rate | %.2f |", summary.SuccessRate)
	appendLine("| latency mean (s) | %.2f |", summary.LatencyMeanS)
	appendLine("| latency median (s) | %.2f |", summary.LatencyMedianS)
	appendLine("| latency min/max (s) | %.2f / %.2f |", summary.LatencyMinS, summary.LatencyMaxS)
	appendLine("| share under 30s | %.2f |", summary.LatencyUnder30s)
	appendLine("| mean Flesch-Kincaid grade | %.2f |", summary.FKGradeMean)
	appendLine("| grade 6-8 target rate | %.2f |", summary.FKTargetRate)
	appendLine("| mean differential count | %.2f |", summary.AvgDifferentials)
	appendLine("")
	appendLine("## Failed cases")
	appendLine("")
	failed := 0
	for _, result := range results {
		if !result.PipelineSuccess {
			appendLine("- `%s`: %s", result.ImagePath, result.Error)
			failed++
		}
	}
	if failed == 0 {
		appendLine("(none)")
	}
	return string(b)
}
