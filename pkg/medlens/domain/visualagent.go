package domain

import "strings"

const visualSystemPrompt = "You are a medical image analysis assistant. Analyze the provided clinical image and " +
	"describe your findings in a structured format. Be thorough but factual. Do not diagnose, only describe " +
	"what you observe."

const visualPromptTemplate = `Analyze this clinical image and report your findings under the following headers:

DESCRIPTION: <overall description of what you see>
MORPHOLOGY: <comma-separated morphological features>
ANATOMICAL LOCATION: <body site visible in the image>
SEVERITY: <mild, moderate or severe>
COLOR DESCRIPTORS: <comma-separated color descriptors>
SIZE ESTIMATE: <approximate size with units>
BORDER CHARACTERISTICS: <description of borders or margins>
ADDITIONAL OBSERVATIONS: <comma-separated additional findings>
CONFIDENCE: <high, moderate or low>`

// The visual agent only describes; keeping the temperature low keeps it factual.
const (
	visualMaxNewTokens = 1024
	visualTemperature  = 0.3
)

// VisualAnalysisAgent is the first agent in the pipeline. It receives a clinical image and produces
// structured visual findings that feed into the clinical reasoning agent.
type VisualAnalysisAgent struct {
	model Model
}

func NewVisualAnalysisAgent(model Model) *VisualAnalysisAgent {
	return &VisualAnalysisAgent{model: model}
}

// Run analyzes the clinical image at `imagePath` and returns structured findings. `clinicalContext` is an
// optional brief hint (e.g. "left forearm lesion"). A model failure is returned as-is; parsing never fails.
func (a *VisualAnalysisAgent) Run(imagePath, clinicalContext string) (*VisualFindings, error) {
	prompt := a.buildPrompt(clinicalContext)
	options := GenerateOptions{MaxNewTokens: visualMaxNewTokens, Temperature: visualTemperature}
	rawOutput, err := a.model.GenerateFromImageAndText(imagePath, prompt, visualSystemPrompt, options)
	if err != nil {
		return nil, err
	}
	return a.parseOutput(rawOutput), nil
}

func (a *VisualAnalysisAgent) buildPrompt(clinicalContext string) string {
	prompt := visualPromptTemplate
	if strings.TrimSpace(clinicalContext) != "" {
		prompt += "\n\nClinical context: " + clinicalContext
	}
	return prompt
}

func (a *VisualAnalysisAgent) parseOutput(rawOutput string) *VisualFindings {
	findings := &VisualFindings{
		Description:            ExtractSection(rawOutput, "DESCRIPTION"),
		Morphology:             ExtractList(rawOutput, "MORPHOLOGY"),
		AnatomicalLocation:     ExtractSection(rawOutput, "ANATOMICAL LOCATION"),
		Severity:               strings.ToLower(ExtractSection(rawOutput, "SEVERITY")),
		ColorDescriptors:       ExtractList(rawOutput, "COLOR DESCRIPTORS"),
		SizeEstimate:           ExtractSection(rawOutput, "SIZE ESTIMATE"),
		BorderCharacteristics:  ExtractSection(rawOutput, "BORDER CHARACTERISTICS"),
		AdditionalObservations: ExtractList(rawOutput, "ADDITIONAL OBSERVATIONS"),
		Confidence:             ParseConfidence(ExtractSection(rawOutput, "CONFIDENCE")),
		RawOutput:              rawOutput,
	}
	// The model ignored the requested format: keep the whole response as the description so the caller
	// still gets something usable.
	if findings.Description == "" && strings.TrimSpace(rawOutput) != "" {
		findings.Description = strings.TrimSpace(rawOutput)
	}
	return findings
}
