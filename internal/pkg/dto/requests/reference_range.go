package requests

import "github.com/goccy/go-json"

// ClassifyValue accepts either a JSON number or a string such as "135 mg/dL".
type ClassifyValue struct {
	Value json.RawMessage `json:"value" validate:"required"`
}
