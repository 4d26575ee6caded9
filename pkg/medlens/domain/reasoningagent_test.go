package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleReasoningOutput = `SUBJECTIVE: 45-year-old male with a growing mole on the left forearm, first noticed 3 months ago.
OBJECTIVE: Single 5mm erythematous papule with irregular, poorly defined borders on the dorsal left forearm.
ASSESSMENT: Atypical nevus with features concerning for dysplasia. Malignancy cannot be excluded.
PLAN: Refer to dermatology for dermoscopic evaluation and possible excisional biopsy.
DIFFERENTIAL DIAGNOSIS: dysplastic nevus, melanoma, seborrheic keratosis, basal cell carcinoma
RECOMMENDED WORKUP: dermoscopy, excisional biopsy, full skin examination
URGENCY: urgent
CONFIDENCE: moderate`

func sampleFindings() *VisualFindings {
	return &VisualFindings{
		Description:           "A single well-demarcated raised lesion on the skin surface.",
		Morphology:            []string{"papule", "raised"},
		AnatomicalLocation:    "left forearm",
		Severity:              "moderate",
		ColorDescriptors:      []string{"erythematous", "pink"},
		SizeEstimate:          "approximately 5mm in diameter",
		BorderCharacteristics: "irregular",
		Confidence:            0.9,
	}
}

func samplePatientContext() *PatientContext {
	return &PatientContext{
		Age:            "45",
		Sex:            "male",
		ChiefComplaint: "growing mole",
		Medications:    "none",
	}
}

func TestReasoningAgentParseStructuredOutput(t *testing.T) {
	agent := NewClinicalReasoningAgent(nil)
	assessment := agent.parseOutput(sampleReasoningOutput)
	if !strings.Contains(assessment.Subjective, "45-year-old male") {
		t.Errorf("unexpected subjective: %q", assessment.Subjective)
	}
	if !strings.Contains(assessment.Objective, "5mm erythematous papule") {
		t.Errorf("unexpected objective: %q", assessment.Objective)
	}
	if !strings.Contains(assessment.Assessment, "Atypical nevus") {
		t.Errorf("unexpected assessment: %q", assessment.Assessment)
	}
	if !strings.Contains(assessment.Plan, "dermatology") {
		t.Errorf("unexpected plan: %q", assessment.Plan)
	}
	expectedDifferentials := []string{"dysplastic nevus", "melanoma", "seborrheic keratosis", "basal cell carcinoma"}
	if diff := cmp.Diff(expectedDifferentials, assessment.DifferentialDiagnosis); diff != "" {
		t.Error(diff)
	}
	expectedWorkup := []string{"dermoscopy", "excisional biopsy", "full skin examination"}
	if diff := cmp.Diff(expectedWorkup, assessment.RecommendedWorkup); diff != "" {
		t.Error(diff)
	}
	if assessment.Urgency != "urgent" {
		t.Errorf("expected urgency \"urgent\", got %q", assessment.Urgency)
	}
	if assessment.Confidence != 0.7 {
		t.Errorf("expected confidence 0.7, got %v", assessment.Confidence)
	}
}

func TestReasoningAgentParseEmptyOutput(t *testing.T) {
	agent := NewClinicalReasoningAgent(nil)
	assessment := agent.parseOutput("")
	if assessment.Subjective != "" || assessment.Assessment != "" {
		t.Fatalf("expected empty SOAP fields, got %+v", assessment)
	}
	if assessment.Urgency != "routine" {
		t.Errorf("an empty urgency must default to routine, got %q", assessment.Urgency)
	}
}

func TestReasoningAgentParseUnstructuredOutputFallsBackToAssessment(t *testing.T) {
	agent := NewClinicalReasoningAgent(nil)
	raw := "This patient likely has a benign lesion that should be monitored."
	assessment := agent.parseOutput(raw)
	if assessment.Assessment != raw {
		t.Errorf("expected the whole response as the assessment, got %q", assessment.Assessment)
	}
	if assessment.Subjective != "" || assessment.Objective != "" || assessment.Plan != "" {
		t.Errorf("the fallback must only populate the assessment: %+v", assessment)
	}
}

func TestReasoningAgentBuildPrompt(t *testing.T) {
	agent := NewClinicalReasoningAgent(nil)
	prompt := agent.buildPrompt(sampleFindings(), samplePatientContext())
	for _, fragment := range []string{
		"VISUAL FINDINGS:",
		"PATIENT CONTEXT:",
		"A single well-demarcated raised lesion",
		"Morphology: papule, raised",
		"Age: 45",
		"Chief complaint: growing mole",
		"SUBJECTIVE:",
		"DIFFERENTIAL DIAGNOSIS:",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("the prompt is missing %q:\n%s", fragment, prompt)
		}
	}
	// Empty context fields stay out of the prompt.
	if strings.Contains(prompt, "Allergies:") {
		t.Error("an empty allergies field must not appear in the prompt")
	}
}

func TestReasoningAgentBuildPromptWithEmptyInputs(t *testing.T) {
	agent := NewClinicalReasoningAgent(nil)
	prompt := agent.buildPrompt(&VisualFindings{}, &PatientContext{})
	if !strings.Contains(prompt, "No visual findings available.") {
		t.Error("expected the findings placeholder")
	}
	if !strings.Contains(prompt, "No patient context provided.") {
		t.Error("expected the patient context placeholder")
	}
}

func TestFormatFindingsSkipsZeroConfidence(t *testing.T) {
	findings := sampleFindings()
	findings.Confidence = 0.0
	if strings.Contains(formatFindings(findings), "Confidence:") {
		t.Error("a zero confidence must not be rendered")
	}
}

func TestSOAPNoteAlwaysContainsTheFourHeaders(t *testing.T) {
	note := (&ClinicalAssessment{}).SOAPNote()
	for _, header := range []string{"SUBJECTIVE:", "OBJECTIVE:", "ASSESSMENT:", "PLAN:"} {
		if !strings.Contains(note, header) {
			t.Errorf("the SOAP note is missing %q", header)
		}
	}
}
