package domain

import "fmt"

// ClinicalAssessment is the structured output of the clinical reasoning stage: a SOAP note plus
// differentials, workup, urgency and confidence.
type ClinicalAssessment struct {
	Subjective            string   `json:"subjective"`
	Objective             string   `json:"objective"`
	Assessment            string   `json:"assessment"`
	Plan                  string   `json:"plan"`
	DifferentialDiagnosis []string `json:"differential_diagnosis"` // most likely first
	RecommendedWorkup     []string `json:"recommended_workup"`
	Urgency               string   `json:"urgency"` // routine, urgent, emergent
	Confidence            float64  `json:"confidence"`
	RawOutput             string   `json:"raw_output"`
}

// SOAPNote renders the assessment as a standard SOAP note. The four headers are always present even when
// the underlying fields are empty.
func (a *ClinicalAssessment) SOAPNote() string {
	return fmt.Sprintf(
		"SUBJECTIVE:\n%s\n\nOBJECTIVE:\n%s\n\nASSESSMENT:\n%s\n\nPLAN:\n%s",
		a.Subjective, a.Objective, a.Assessment, a.Plan,
	)
}
