package models

// ReferenceBand is one contiguous interval of a reference range. A nil bound
// is unbounded on that side.
type ReferenceBand struct {
	Label          string   `json:"label"`
	Lower          *float64 `json:"lower,omitempty"`
	Upper          *float64 `json:"upper,omitempty"`
	LowerInclusive bool     `json:"lower_inclusive"`
	UpperInclusive bool     `json:"upper_inclusive"`
	Color          string   `json:"color"`
	Symbol         string   `json:"symbol"`
	Recommendation string   `json:"recommendation"`
}

func (b ReferenceBand) Contains(value float64) bool {
	if b.Lower != nil {
		if b.LowerInclusive && value < *b.Lower {
			return false
		}
		if !b.LowerInclusive && value <= *b.Lower {
			return false
		}
	}
	if b.Upper != nil {
		if b.UpperInclusive && value > *b.Upper {
			return false
		}
		if !b.UpperInclusive && value >= *b.Upper {
			return false
		}
	}
	return true
}
