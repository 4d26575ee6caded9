package api

import (
	"medlens/pkg/common"
	"medlens/pkg/medlens/domain"
	"medlens/pkg/medlens/infrastructure/logging"
	"medlens/pkg/medlens/infrastructure/medgemma"
)

// ConfigKeyLogPath file path where to save the logs
const ConfigKeyLogPath = "logPath"

type api struct {
	orchestrator *domain.Orchestrator
	evaluator    *domain.Evaluator
}

// API is the entrypoint to MedLens. It shouldn't contain any logic of its own; it glues all the components
// together and provides a public interface for the pipeline. This API can be used in various contexts: a
// console front end, an HTTP server, a batch evaluation run etc.
type API interface {
	// Analyze runs the full three-stage pipeline (visual analysis, clinical reasoning, patient report) over
	// the image at `imagePath`. `clinicalContext` is an optional brief hint for the visual stage, e.g.
	// "left forearm lesion". `onProgress` may be nil. The returned result is never nil; check its Success
	// flag before trusting the three stage outputs.
	Analyze(imagePath string, patientContext *domain.PatientContext, clinicalContext string, onProgress domain.ProgressFunc) *domain.PipelineResult
	// Evaluate runs the pipeline over a batch of cases and returns per-case metrics plus an aggregate
	// summary (nil when `cases` is empty).
	Evaluate(cases []domain.EvaluationCase) ([]*domain.EvaluationResult, *domain.EvaluationSummary)
}

func NewAPI(config *common.Config) API {
	logger := common.NewFileLogger(config.GetStringOrDefault(ConfigKeyLogPath, "log.txt"))
	model := logging.NewModelDecorator(medgemma.NewModel(config, logger), logger)
	orchestrator := domain.NewOrchestrator(model, logger)
	return &api{
		orchestrator: orchestrator,
		evaluator:    domain.NewEvaluator(orchestrator, logger),
	}
}

func (a *api) Analyze(imagePath string, patientContext *domain.PatientContext, clinicalContext string, onProgress domain.ProgressFunc) *domain.PipelineResult {
	return a.orchestrator.Run(imagePath, patientContext, clinicalContext, onProgress)
}

func (a *api) Evaluate(cases []domain.EvaluationCase) ([]*domain.EvaluationResult, *domain.EvaluationSummary) {
	results := a.evaluator.EvaluateBatch(cases)
	return results, domain.Summarize(results)
}
