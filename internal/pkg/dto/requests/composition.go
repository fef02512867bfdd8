package requests

type AttachEntry struct {
	Section   string `json:"section" validate:"required,max=128"`
	Reference string `json:"reference" validate:"required,fhir_reference"`
}

type DetachReference struct {
	Reference string `json:"reference" validate:"required,fhir_reference"`
}
