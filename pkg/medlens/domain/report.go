package domain

// ReportDisclaimer is attached to every patient report. The wording must keep the "NOT a medical diagnosis"
// notice intact, front ends display it verbatim.
const ReportDisclaimer = "IMPORTANT: This report was generated by an automated assistant and is NOT a medical diagnosis. " +
	"It is meant to help you understand the analysis and talk with your healthcare provider. " +
	"Always consult a qualified clinician about these results before making any medical decisions."

// PatientReport is the structured output of the patient report stage: the clinical assessment rewritten in
// plain language, with a readability estimate of the narrative text.
type PatientReport struct {
	Summary            string   `json:"summary"`
	WhatWeFound        string   `json:"what_we_found"`
	WhatItMightMean    string   `json:"what_it_might_mean"`
	NextSteps          string   `json:"next_steps"`
	QuestionsToAsk     []string `json:"questions_to_ask"`
	FleschKincaidGrade float64  `json:"flesch_kincaid_grade"`
	Disclaimer         string   `json:"disclaimer"`
	RawOutput          string   `json:"raw_output"`
}
