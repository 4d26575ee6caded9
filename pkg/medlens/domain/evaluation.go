package domain

import (
	"fmt"
	"sort"

	"medlens/pkg/common"
)

// The competition target: a patient report readable at a 6th-8th grade level.
const (
	fkTargetMinGrade = 6.0
	fkTargetMaxGrade = 8.0

	latencyTargetSeconds = 30.0
)

// EvaluationCase is one entry of a batch evaluation case list.
type EvaluationCase struct {
	ImagePath       string         `json:"image_path" yaml:"image"`
	Context         PatientContext `json:"context" yaml:"context"`
	ClinicalContext string         `json:"clinical_context" yaml:"clinical_context"`
}

// EvaluationResult holds the metrics collected from a single pipeline run.
type EvaluationResult struct {
	ImagePath              string  `json:"image_path"`
	TotalTimeS             float64 `json:"total_time_s"`
	VisualAnalysisTimeS    float64 `json:"visual_analysis_time_s"`
	ClinicalReasoningTimeS float64 `json:"clinical_reasoning_time_s"`
	PatientReportTimeS     float64 `json:"patient_report_time_s"`
	FleschKincaidGrade     float64 `json:"flesch_kincaid_grade"`
	FKTargetMet            bool    `json:"fk_target_met"`
	NumDifferentials       int     `json:"num_differentials"`
	Urgency                string  `json:"urgency"`
	VisualConfidence       float64 `json:"visual_confidence"`
	ClinicalConfidence     float64 `json:"clinical_confidence"`
	PipelineSuccess        bool    `json:"pipeline_success"`
	Error                  string  `json:"error"`
}

// EvaluationSummary aggregates a batch of evaluation results.
type EvaluationSummary struct {
	TotalCases       int     `json:"total_cases"`
	SuccessfulCases  int     `json:"successful_cases"`
	SuccessRate      float64 `json:"success_rate"`
	LatencyMeanS     float64 `json:"latency_mean_s"`
	LatencyMedianS   float64 `json:"latency_median_s"`
	LatencyMinS      float64 `json:"latency_min_s"`
	LatencyMaxS      float64 `json:"latency_max_s"`
	LatencyUnder30s  float64 `json:"latency_under_30s"`
	FKGradeMean      float64 `json:"fk_grade_mean"`
	FKTargetRate     float64 `json:"fk_target_rate"`
	AvgDifferentials float64 `json:"avg_differentials"`
}

// Evaluator runs the pipeline over a list of cases and collects quality and latency metrics.
type Evaluator struct {
	orchestrator *Orchestrator
	logger       common.Logger
}

func NewEvaluator(orchestrator *Orchestrator, logger common.Logger) *Evaluator {
	return &Evaluator{orchestrator: orchestrator, logger: logger}
}

// EvaluateSingle runs the pipeline on one case and converts the pipeline result into metrics. Failed runs
// still produce a result with the error captured.
func (e *Evaluator) EvaluateSingle(evaluationCase EvaluationCase) *EvaluationResult {
	result := e.orchestrator.Run(evaluationCase.ImagePath, &evaluationCase.Context, evaluationCase.ClinicalContext, nil)
	evaluationResult := &EvaluationResult{
		ImagePath:       evaluationCase.ImagePath,
		TotalTimeS:      result.TotalTime,
		PipelineSuccess: result.Success,
		Error:           result.Error,
	}
	evaluationResult.VisualAnalysisTimeS = result.Timings[StageVisualAnalysis]
	evaluationResult.ClinicalReasoningTimeS = result.Timings[StageClinicalReasoning]
	evaluationResult.PatientReportTimeS = result.Timings[StagePatientReport]
	if result.VisualFindings != nil {
		evaluationResult.VisualConfidence = result.VisualFindings.Confidence
	}
	if result.ClinicalAssessment != nil {
		evaluationResult.NumDifferentials = len(result.ClinicalAssessment.DifferentialDiagnosis)
		evaluationResult.Urgency = result.ClinicalAssessment.Urgency
		evaluationResult.ClinicalConfidence = result.ClinicalAssessment.Confidence
	}
	if result.PatientReport != nil {
		evaluationResult.FleschKincaidGrade = result.PatientReport.FleschKincaidGrade
		evaluationResult.FKTargetMet = result.PatientReport.FleschKincaidGrade >= fkTargetMinGrade &&
			result.PatientReport.FleschKincaidGrade <= fkTargetMaxGrade
	}
	return evaluationResult
}

// EvaluateBatch runs the pipeline over every case in order. A failing case does not stop the batch.
func (e *Evaluator) EvaluateBatch(cases []EvaluationCase) []*EvaluationResult {
	results := make([]*EvaluationResult, 0, len(cases))
	for i, evaluationCase := range cases {
		e.logger.Log(fmt.Sprintf("evaluating case %d/%d: %s\n", i+1, len(cases), evaluationCase.ImagePath))
		results = append(results, e.EvaluateSingle(evaluationCase))
	}
	return results
}

// Summarize computes aggregate statistics over a batch of results. Returns nil for an empty batch.
func Summarize(results []*EvaluationResult) *EvaluationSummary {
	if len(results) == 0 {
		return nil
	}
	summary := &EvaluationSummary{TotalCases: len(results)}
	var successful []*EvaluationResult
	for _, result := range results {
		if result.PipelineSuccess {
			successful = append(successful, result)
		}
	}
	summary.SuccessfulCases = len(successful)
	summary.SuccessRate = float64(len(successful)) / float64(len(results))
	if len(successful) == 0 {
		return summary
	}
	times := make([]float64, 0, len(successful))
	underTarget := 0
	gradeSum, gradeCount := 0.0, 0
	targetMet := 0
	differentialSum := 0
	for _, result := range successful {
		times = append(times, result.TotalTimeS)
		if result.TotalTimeS <= latencyTargetSeconds {
			underTarget++
		}
		if result.FleschKincaidGrade > 0 {
			gradeSum += result.FleschKincaidGrade
			gradeCount++
		}
		if result.FKTargetMet {
			targetMet++
		}
		differentialSum += result.NumDifferentials
	}
	sort.Float64s(times)
	timeSum := 0.0
	for _, t := range times {
		timeSum += t
	}
	summary.LatencyMeanS = timeSum / float64(len(times))
	summary.LatencyMedianS = times[len(times)/2]
	summary.LatencyMinS = times[0]
	summary.LatencyMaxS = times[len(times)-1]
	summary.LatencyUnder30s = float64(underTarget) / float64(len(times))
	if gradeCount > 0 {
		summary.FKGradeMean = gradeSum / float64(gradeCount)
	}
	summary.FKTargetRate = float64(targetMet) / float64(len(successful))
	summary.AvgDifferentials = float64(differentialSum) / float64(len(successful))
	return summary
}
