package responses

import "ips-timeline-service/internal/app/models"

type ReferenceRange struct {
	Analyte string                 `json:"analyte"`
	Code    string                 `json:"code"`
	Unit    string                 `json:"unit"`
	Bands   []models.ReferenceBand `json:"bands"`
}

type Classification struct {
	Analyte        string  `json:"analyte"`
	Value          float64 `json:"value"`
	Unit           string  `json:"unit"`
	Label          string  `json:"label"`
	Color          string  `json:"color"`
	Symbol         string  `json:"symbol"`
	Recommendation string  `json:"recommendation"`
}
