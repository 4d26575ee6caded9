package domain

import (
	"fmt"
	"strings"
)

const reasoningSystemPrompt = "You are a clinical reasoning assistant. Given visual findings from a clinical " +
	"image analysis and patient context, provide a structured clinical assessment. This is for clinical " +
	"decision support only, not a definitive diagnosis."

const reasoningPromptTemplate = `VISUAL FINDINGS:
%s

PATIENT CONTEXT:
%s

Provide a structured clinical assessment under the following headers:

SUBJECTIVE: <patient-reported history and symptoms>
OBJECTIVE: <objective findings from the image analysis>
ASSESSMENT: <your clinical interpretation>
PLAN: <recommended next steps>
DIFFERENTIAL DIAGNOSIS: <comma-separated diagnoses, most likely first>
RECOMMENDED WORKUP: <comma-separated tests or referrals>
URGENCY: <routine, urgent or emergent>
CONFIDENCE: <high, moderate or low>`

// The reasoning agent gets the lowest temperature of the three: differentials must not drift.
const (
	reasoningMaxNewTokens = 1024
	reasoningTemperature  = 0.2
)

// ClinicalReasoningAgent is the second agent in the pipeline. It integrates the structured visual findings
// with the patient context and produces a clinical assessment with a SOAP note and differentials.
type ClinicalReasoningAgent struct {
	model Model
}

func NewClinicalReasoningAgent(model Model) *ClinicalReasoningAgent {
	return &ClinicalReasoningAgent{model: model}
}

// Run produces a clinical assessment from the visual findings and patient context.
func (a *ClinicalReasoningAgent) Run(findings *VisualFindings, context *PatientContext) (*ClinicalAssessment, error) {
	prompt := a.buildPrompt(findings, context)
	options := GenerateOptions{MaxNewTokens: reasoningMaxNewTokens, Temperature: reasoningTemperature}
	rawOutput, err := a.model.GenerateFromText(prompt, reasoningSystemPrompt, options)
	if err != nil {
		return nil, err
	}
	return a.parseOutput(rawOutput), nil
}

func (a *ClinicalReasoningAgent) buildPrompt(findings *VisualFindings, context *PatientContext) string {
	findingsBlock := formatFindings(findings)
	if findingsBlock == "" {
		findingsBlock = "No visual findings available."
	}
	contextBlock := formatPatientContext(context)
	if contextBlock == "" {
		contextBlock = "No patient context provided."
	}
	return fmt.Sprintf(reasoningPromptTemplate, findingsBlock, contextBlock)
}

func (a *ClinicalReasoningAgent) parseOutput(rawOutput string) *ClinicalAssessment {
	assessment := &ClinicalAssessment{
		Subjective:            ExtractSection(rawOutput, "SUBJECTIVE"),
		Objective:             ExtractSection(rawOutput, "OBJECTIVE"),
		Assessment:            ExtractSection(rawOutput, "ASSESSMENT"),
		Plan:                  ExtractSection(rawOutput, "PLAN"),
		DifferentialDiagnosis: ExtractList(rawOutput, "DIFFERENTIAL DIAGNOSIS"),
		RecommendedWorkup:     ExtractList(rawOutput, "RECOMMENDED WORKUP"),
		Urgency:               ParseUrgency(ExtractSection(rawOutput, "URGENCY")),
		Confidence:            ParseConfidence(ExtractSection(rawOutput, "CONFIDENCE")),
		RawOutput:             rawOutput,
	}
	// All four SOAP fields missing means the model ignored the format entirely: keep the whole response
	// as the assessment. Differentials or urgency alone do not suppress the fallback.
	allSOAPEmpty := assessment.Subjective == "" && assessment.Objective == "" &&
		assessment.Assessment == "" && assessment.Plan == ""
	if allSOAPEmpty && strings.TrimSpace(rawOutput) != "" {
		assessment.Assessment = strings.TrimSpace(rawOutput)
	}
	return assessment
}

// formatFindings renders the visual findings as human-readable block text, skipping empty fields.
func formatFindings(findings *VisualFindings) string {
	var lines []string
	appendLine := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, label+": "+value)
		}
	}
	appendLine("Description", findings.Description)
	appendLine("Morphology", strings.Join(findings.Morphology, ", "))
	appendLine("Anatomical location", findings.AnatomicalLocation)
	appendLine("Severity", findings.Severity)
	appendLine("Color descriptors", strings.Join(findings.ColorDescriptors, ", "))
	appendLine("Size estimate", findings.SizeEstimate)
	appendLine("Border characteristics", findings.BorderCharacteristics)
	appendLine("Additional observations", strings.Join(findings.AdditionalObservations, ", "))
	if findings.Confidence > 0 {
		appendLine("Confidence", fmt.Sprintf("%.2f", findings.Confidence))
	}
	return strings.Join(lines, "\n")
}

// formatPatientContext renders the patient context as human-readable block text, skipping empty fields.
func formatPatientContext(context *PatientContext) string {
	var lines []string
	appendLine := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, label+": "+value)
		}
	}
	appendLine("Age", context.Age)
	appendLine("Sex", context.Sex)
	appendLine("Chief complaint", context.ChiefComplaint)
	appendLine("History of present illness", context.HistoryOfPresentIllness)
	appendLine("Past medical history", context.PastMedicalHistory)
	appendLine("Medications", context.Medications)
	appendLine("Allergies", context.Allergies)
	appendLine("Additional notes", context.AdditionalNotes)
	return strings.Join(lines, "\n")
}
