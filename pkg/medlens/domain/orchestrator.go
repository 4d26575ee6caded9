package domain

import (
	"time"

	"medlens/pkg/common"
)

// Stage names, also used as timing keys in PipelineResult.Timings.
const (
	StageVisualAnalysis    = "visual_analysis"
	StageClinicalReasoning = "clinical_reasoning"
	StagePatientReport     = "patient_report"
	StageComplete          = "complete"
)

// ProgressFunc is invoked synchronously before each stage and once on completion. It is advisory
// instrumentation only: the return-less callback never gates control flow, and a callback that blocks
// forever is a caller bug.
type ProgressFunc func(stage string, fraction float64, message string)

// PipelineResult is the complete result of one pipeline run. On failure the stages completed so far stay
// populated, so callers can inspect how far the pipeline got; Success is true only when all three stages
// completed.
type PipelineResult struct {
	VisualFindings     *VisualFindings     `json:"visual_findings"`
	ClinicalAssessment *ClinicalAssessment `json:"clinical_assessment"`
	PatientReport      *PatientReport      `json:"patient_report"`
	Timings            map[string]float64  `json:"timings"` // stage name -> elapsed seconds
	TotalTime          float64             `json:"total_time"`
	Success            bool                `json:"success"`
	Error              string              `json:"error"`
}

// SOAPNote renders the assessment's SOAP note, or "" when the reasoning stage never completed.
func (r *PipelineResult) SOAPNote() string {
	if r.ClinicalAssessment == nil {
		return ""
	}
	return r.ClinicalAssessment.SOAPNote()
}

// Orchestrator coordinates the three-agent pipeline: visual analysis feeds clinical reasoning, which feeds
// the patient report. Stages run strictly in sequence; there is nothing to parallelize because each stage
// structurally depends on the previous one's output.
//
// One Orchestrator (and its agents) belongs to one caller at a time; independent runs may happen
// concurrently only with independent Orchestrator instances. The shared model is the only common resource
// and owns its own concurrency-safety.
type Orchestrator struct {
	visualAgent    *VisualAnalysisAgent
	reasoningAgent *ClinicalReasoningAgent
	reportAgent    *PatientReportAgent
	logger         common.Logger
}

func NewOrchestrator(model Model, logger common.Logger) *Orchestrator {
	return &Orchestrator{
		visualAgent:    NewVisualAnalysisAgent(model),
		reasoningAgent: NewClinicalReasoningAgent(model),
		reportAgent:    NewPatientReportAgent(model),
		logger:         logger,
	}
}

// Run executes the full pipeline over the image at `imagePath`. Any stage failure stops the run
// immediately: the error message is captured into the result and no error is returned to the caller, so a
// pipeline failure is always observable as data. The orchestrator performs no retries; retry policy, if
// wanted, belongs to the model implementation.
func (o *Orchestrator) Run(imagePath string, patientContext *PatientContext, clinicalContext string, onProgress ProgressFunc) *PipelineResult {
	if patientContext == nil {
		patientContext = &PatientContext{}
	}
	result := &PipelineResult{Timings: make(map[string]float64)}
	pipelineStart := time.Now()
	progress := func(stage string, fraction float64, message string) {
		if onProgress != nil {
			onProgress(stage, fraction, message)
		}
	}
	fail := func(err error) *PipelineResult {
		o.logger.Log("pipeline failed: " + err.Error() + "\n")
		result.Error = err.Error()
		result.Success = false
		result.TotalTime = time.Since(pipelineStart).Seconds()
		return result
	}

	progress(StageVisualAnalysis, 0.1, "Analyzing the clinical image")
	stageStart := time.Now()
	findings, err := o.visualAgent.Run(imagePath, clinicalContext)
	if err != nil {
		return fail(err)
	}
	result.VisualFindings = findings
	result.Timings[StageVisualAnalysis] = time.Since(stageStart).Seconds()

	progress(StageClinicalReasoning, 0.4, "Reasoning about the findings")
	stageStart = time.Now()
	assessment, err := o.reasoningAgent.Run(findings, patientContext)
	if err != nil {
		return fail(err)
	}
	result.ClinicalAssessment = assessment
	result.Timings[StageClinicalReasoning] = time.Since(stageStart).Seconds()

	progress(StagePatientReport, 0.7, "Writing the patient report")
	stageStart = time.Now()
	report, err := o.reportAgent.Run(assessment)
	if err != nil {
		return fail(err)
	}
	result.PatientReport = report
	result.Timings[StagePatientReport] = time.Since(stageStart).Seconds()

	result.Success = true
	result.TotalTime = time.Since(pipelineStart).Seconds()
	progress(StageComplete, 1.0, "Pipeline complete")
	return result
}
