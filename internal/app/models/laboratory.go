package models

import "time"

type LabPoint struct {
	Date           string    `json:"date"`
	Time           time.Time `json:"time"`
	Name           string    `json:"name"`
	RawValue       string    `json:"raw_value"`
	Value          float64   `json:"value"`
	Band           string    `json:"band"`
	Color          string    `json:"color"`
	Symbol         string    `json:"symbol"`
	Recommendation string    `json:"recommendation"`
}

// LabSeries is the classified, date ordered history of one analyte.
type LabSeries struct {
	PatientID            string          `json:"patient_id"`
	Analyte              string          `json:"analyte"`
	Unit                 string          `json:"unit"`
	Points               []LabPoint      `json:"points"`
	Dropped              int             `json:"dropped"`
	Bands                []ReferenceBand `json:"bands"`
	LatestRecommendation string          `json:"latest_recommendation,omitempty"`
}
