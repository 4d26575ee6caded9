package domain

import (
	"fmt"
	"strings"
)

const reportSystemPrompt = "You are a medical communication assistant. Rewrite clinical assessments in plain, " +
	"friendly language that a person without medical training can understand. Never add findings that are not " +
	"in the assessment."

const reportPromptTemplate = `CLINICAL ASSESSMENT:
%s

Rewrite this assessment for the patient in plain language at a 6th-8th grade reading level. Avoid medical
jargon; when a medical term is unavoidable, explain it in everyday words. Use the following headers:

SUMMARY: <one or two sentence overview>
WHAT WE FOUND: <plain-language description of the findings>
WHAT IT MIGHT MEAN: <possible explanations, without alarming the reader>
NEXT STEPS: <what the patient should do next>
QUESTIONS TO ASK YOUR DOCTOR: <comma-separated questions>`

// A slightly higher temperature helps the rewriting sound natural; the content is already fixed by the
// assessment it rewrites.
const (
	reportMaxNewTokens = 768
	reportTemperature  = 0.4
)

// PatientReportAgent is the third agent in the pipeline. It turns the clinical assessment into a
// patient-friendly report and scores its readability.
type PatientReportAgent struct {
	model Model
}

func NewPatientReportAgent(model Model) *PatientReportAgent {
	return &PatientReportAgent{model: model}
}

// Run produces a plain-language report from the clinical assessment.
func (a *PatientReportAgent) Run(assessment *ClinicalAssessment) (*PatientReport, error) {
	prompt := a.buildPrompt(assessment)
	options := GenerateOptions{MaxNewTokens: reportMaxNewTokens, Temperature: reportTemperature}
	rawOutput, err := a.model.GenerateFromText(prompt, reportSystemPrompt, options)
	if err != nil {
		return nil, err
	}
	return a.parseOutput(rawOutput), nil
}

func (a *PatientReportAgent) buildPrompt(assessment *ClinicalAssessment) string {
	return fmt.Sprintf(reportPromptTemplate, formatAssessment(assessment))
}

func (a *PatientReportAgent) parseOutput(rawOutput string) *PatientReport {
	report := &PatientReport{
		Summary:         ExtractSection(rawOutput, "SUMMARY"),
		WhatWeFound:     ExtractSection(rawOutput, "WHAT WE FOUND"),
		WhatItMightMean: ExtractSection(rawOutput, "WHAT IT MIGHT MEAN"),
		NextSteps:       ExtractSection(rawOutput, "NEXT STEPS"),
		QuestionsToAsk:  ExtractList(rawOutput, "QUESTIONS TO ASK YOUR DOCTOR"),
		Disclaimer:      ReportDisclaimer,
		RawOutput:       rawOutput,
	}
	if report.Summary == "" && strings.TrimSpace(rawOutput) != "" {
		report.Summary = strings.TrimSpace(rawOutput)
	}
	// The grade is always computed over whatever narrative text was recovered, fallback included.
	narrative := strings.TrimSpace(strings.Join([]string{
		report.Summary, report.WhatWeFound, report.WhatItMightMean, report.NextSteps,
	}, " "))
	report.FleschKincaidGrade = FleschKincaidGrade(narrative)
	return report
}

// formatAssessment renders the clinical assessment as a labeled block, skipping empty fields. When the
// whole assessment is empty the agent still needs something to put in the prompt.
func formatAssessment(assessment *ClinicalAssessment) string {
	var lines []string
	appendLine := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			lines = append(lines, label+": "+value)
		}
	}
	appendLine("Subjective", assessment.Subjective)
	appendLine("Objective", assessment.Objective)
	appendLine("Assessment", assessment.Assessment)
	appendLine("Plan", assessment.Plan)
	appendLine("Differential diagnosis", strings.Join(assessment.DifferentialDiagnosis, ", "))
	appendLine("Recommended workup", strings.Join(assessment.RecommendedWorkup, ", "))
	appendLine("Urgency", assessment.Urgency)
	if len(lines) == 0 {
		return "No clinical assessment available."
	}
	return strings.Join(lines, "\n")
}
