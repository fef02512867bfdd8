package responses

type AttachEntry struct {
	CompositionID string `json:"composition_id"`
	Section       string `json:"section"`
	Reference     string `json:"reference"`
	Attached      bool   `json:"attached"`
}

type DetachReference struct {
	Reference           string   `json:"reference"`
	UpdatedCompositions []string `json:"updated_compositions"`
	ScannedCompositions int      `json:"scanned_compositions"`
}
