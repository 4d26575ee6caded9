package domain

// VisualFindings is the structured output of the visual analysis stage. RawOutput always keeps the exact
// model response as the audit trail, no matter how well (or badly) it parsed.
type VisualFindings struct {
	Description            string   `json:"description"`
	Morphology             []string `json:"morphology"`
	AnatomicalLocation     string   `json:"anatomical_location"`
	Severity               string   `json:"severity"` // mild, moderate, severe, or empty if unrecognized
	ColorDescriptors       []string `json:"color_descriptors"`
	SizeEstimate           string   `json:"size_estimate"`
	BorderCharacteristics  string   `json:"border_characteristics"`
	AdditionalObservations []string `json:"additional_observations"`
	Confidence             float64  `json:"confidence"`
	RawOutput              string   `json:"raw_output"`
}
