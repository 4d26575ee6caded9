package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleVisualOutput = `DESCRIPTION: A single well-demarcated raised lesion on the skin surface.
MORPHOLOGY: papule, raised, irregular shape, dome-shaped
ANATOMICAL LOCATION: left forearm, dorsal surface
SEVERITY: Moderate
COLOR DESCRIPTORS: erythematous, pink, brown center
SIZE ESTIMATE: approximately 5mm in diameter
BORDER CHARACTERISTICS: irregular, poorly defined margins
ADDITIONAL OBSERVATIONS: no ulceration, no satellite lesions, mild surrounding erythema
CONFIDENCE: high`

func TestVisualAgentParseStructuredOutput(t *testing.T) {
	agent := NewVisualAnalysisAgent(nil)
	findings := agent.parseOutput(sampleVisualOutput)
	if findings.Description != "A single well-demarcated raised lesion on the skin surface." {
		t.Errorf("unexpected description: %q", findings.Description)
	}
	expectedMorphology := []string{"papule", "raised", "irregular shape", "dome-shaped"}
	if diff := cmp.Diff(expectedMorphology, findings.Morphology); diff != "" {
		t.Error(diff)
	}
	if findings.AnatomicalLocation != "left forearm, dorsal surface" {
		t.Errorf("unexpected anatomical location: %q", findings.AnatomicalLocation)
	}
	if findings.Severity != "moderate" {
		t.Errorf("severity must be lowercased, got %q", findings.Severity)
	}
	expectedColors := []string{"erythematous", "pink", "brown center"}
	if diff := cmp.Diff(expectedColors, findings.ColorDescriptors); diff != "" {
		t.Error(diff)
	}
	if findings.SizeEstimate != "approximately 5mm in diameter" {
		t.Errorf("unexpected size estimate: %q", findings.SizeEstimate)
	}
	if findings.BorderCharacteristics != "irregular, poorly defined margins" {
		t.Errorf("unexpected border characteristics: %q", findings.BorderCharacteristics)
	}
	if len(findings.AdditionalObservations) != 3 {
		t.Errorf("expected 3 additional observations, got %v", findings.AdditionalObservations)
	}
	if findings.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %v", findings.Confidence)
	}
	if findings.RawOutput != sampleVisualOutput {
		t.Error("the raw output must be preserved verbatim")
	}
}

func TestVisualAgentParseEmptyOutput(t *testing.T) {
	agent := NewVisualAnalysisAgent(nil)
	findings := agent.parseOutput("")
	if findings.Description != "" || findings.Morphology != nil || findings.Confidence != 0.0 {
		t.Fatalf("expected zero-valued findings, got %+v", findings)
	}
}

func TestVisualAgentParseUnstructuredOutputFallsBackToDescription(t *testing.T) {
	agent := NewVisualAnalysisAgent(nil)
	raw := "  This is an unstructured description without any headers.  "
	findings := agent.parseOutput(raw)
	if findings.Description != "This is an unstructured description without any headers." {
		t.Errorf("expected the whole trimmed response as the description, got %q", findings.Description)
	}
	if findings.Morphology != nil || findings.Severity != "" {
		t.Errorf("no other field may be populated by the fallback: %+v", findings)
	}
}

func TestVisualAgentBuildPromptWithClinicalContext(t *testing.T) {
	agent := NewVisualAnalysisAgent(nil)
	prompt := agent.buildPrompt("left forearm lesion")
	if !strings.Contains(prompt, "DESCRIPTION:") || !strings.Contains(prompt, "CONFIDENCE:") {
		t.Error("the prompt must request the structured headers")
	}
	if !strings.Contains(prompt, "Clinical context: left forearm lesion") {
		t.Errorf("the clinical context is missing from the prompt:\n%s", prompt)
	}
}

func TestVisualAgentBuildPromptWithoutClinicalContext(t *testing.T) {
	agent := NewVisualAnalysisAgent(nil)
	if strings.Contains(agent.buildPrompt("  "), "Clinical context:") {
		t.Error("a blank clinical context must not be mentioned in the prompt")
	}
}
