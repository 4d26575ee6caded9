package domain

// PatientContext is the demographic and clinical context supplied by the caller. All fields are free text
// and optional; the pipeline never mutates it.
type PatientContext struct {
	Age                     string `json:"age" yaml:"age"`
	Sex                     string `json:"sex" yaml:"sex"`
	ChiefComplaint          string `json:"chief_complaint" yaml:"chief_complaint"`
	HistoryOfPresentIllness string `json:"history_of_present_illness" yaml:"history_of_present_illness"`
	PastMedicalHistory      string `json:"past_medical_history" yaml:"past_medical_history"`
	Medications             string `json:"medications" yaml:"medications"`
	Allergies               string `json:"allergies" yaml:"allergies"`
	AdditionalNotes         string `json:"additional_notes" yaml:"additional_notes"`
}
