package domain

import (
	"strings"
	"testing"
)

const sampleReportOutput = `SUMMARY: Your doctor looked at a spot on your arm and thinks it needs a closer check by a skin specialist.
WHAT WE FOUND: There is a small raised spot on your left forearm, about the size of a pencil eraser. The spot has uneven edges and is pinkish-brown in color.
WHAT IT MIGHT MEAN: Most spots like this are harmless, but some can change over time. A skin doctor can tell for sure.
NEXT STEPS: Make an appointment with a skin doctor soon. They may look at the spot with a special lens or take a tiny sample.
QUESTIONS TO ASK YOUR DOCTOR: What type of spot is this?, Do I need a biopsy?, How quickly should I be seen?, What signs should I watch for?`

func sampleAssessment() *ClinicalAssessment {
	return &ClinicalAssessment{
		Subjective:            "45-year-old male with a growing mole on the left forearm.",
		Objective:             "Single 5mm erythematous papule with irregular borders.",
		Assessment:            "Atypical nevus with features concerning for dysplasia.",
		Plan:                  "Refer to dermatology for evaluation.",
		DifferentialDiagnosis: []string{"dysplastic nevus", "melanoma"},
		RecommendedWorkup:     []string{"dermoscopy", "excisional biopsy"},
		Urgency:               "urgent",
		Confidence:            0.7,
	}
}

func TestReportAgentParseStructuredOutput(t *testing.T) {
	agent := NewPatientReportAgent(nil)
	report := agent.parseOutput(sampleReportOutput)
	if !strings.Contains(report.Summary, "skin specialist") {
		t.Errorf("unexpected summary: %q", report.Summary)
	}
	if !strings.Contains(report.WhatWeFound, "pencil eraser") {
		t.Errorf("unexpected findings section: %q", report.WhatWeFound)
	}
	if !strings.Contains(report.WhatItMightMean, "harmless") {
		t.Errorf("unexpected meaning section: %q", report.WhatItMightMean)
	}
	if !strings.Contains(report.NextSteps, "appointment") {
		t.Errorf("unexpected next steps: %q", report.NextSteps)
	}
	if len(report.QuestionsToAsk) != 4 {
		t.Errorf("expected 4 questions, got %v", report.QuestionsToAsk)
	}
	if !strings.Contains(strings.Join(report.QuestionsToAsk, " "), "biopsy") {
		t.Errorf("expected a biopsy question, got %v", report.QuestionsToAsk)
	}
	if report.FleschKincaidGrade <= 0.0 || report.FleschKincaidGrade >= 20.0 {
		t.Errorf("implausible readability grade: %v", report.FleschKincaidGrade)
	}
	if !strings.Contains(report.Disclaimer, "NOT a medical diagnosis") {
		t.Errorf("the disclaimer must always be attached, got %q", report.Disclaimer)
	}
}

func TestReportAgentParseEmptyOutput(t *testing.T) {
	agent := NewPatientReportAgent(nil)
	report := agent.parseOutput("")
	if report.Summary != "" || report.QuestionsToAsk != nil {
		t.Fatalf("expected an empty report, got %+v", report)
	}
	if report.FleschKincaidGrade != 0.0 {
		t.Errorf("an empty report has no readable text, got grade %v", report.FleschKincaidGrade)
	}
	if report.Disclaimer != ReportDisclaimer {
		t.Error("the disclaimer must be attached even to an empty report")
	}
}

func TestReportAgentParseUnstructuredOutputFallsBackToSummary(t *testing.T) {
	agent := NewPatientReportAgent(nil)
	raw := "Your doctor found a spot on your arm that needs a closer look."
	report := agent.parseOutput(raw)
	if report.Summary != raw {
		t.Errorf("expected the whole response as the summary, got %q", report.Summary)
	}
	if report.FleschKincaidGrade <= 0.0 {
		t.Errorf("the grade must still be computed over the fallback text, got %v", report.FleschKincaidGrade)
	}
}

func TestReportAgentBuildPrompt(t *testing.T) {
	agent := NewPatientReportAgent(nil)
	prompt := agent.buildPrompt(sampleAssessment())
	for _, fragment := range []string{
		"CLINICAL ASSESSMENT:",
		"Atypical nevus",
		"Differential diagnosis: dysplastic nevus, melanoma",
		"Urgency: urgent",
		"6th-8th grade",
		"SUMMARY:",
		"QUESTIONS TO ASK YOUR DOCTOR:",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("the prompt is missing %q:\n%s", fragment, prompt)
		}
	}
}

func TestReportAgentBuildPromptWithEmptyAssessment(t *testing.T) {
	agent := NewPatientReportAgent(nil)
	prompt := agent.buildPrompt(&ClinicalAssessment{})
	if !strings.Contains(prompt, "No clinical assessment available.") {
		t.Errorf("expected the placeholder for an empty assessment:\n%s", prompt)
	}
}
