package requests

type TimelineQuery struct {
	PatientID      string   `json:"patient_id" validate:"required,max=64"`
	HistoryVersion string   `json:"history_version" validate:"omitempty,numeric,max=16"`
	From           string   `json:"from" validate:"omitempty,max=35"`
	To             string   `json:"to" validate:"omitempty,max=35"`
	Titles         []string `json:"titles" validate:"omitempty,dive,max=128"`
	Sort           string   `json:"sort" validate:"omitempty,oneof=document date"`
}

func (q *TimelineQuery) SortByDate() bool {
	return q.Sort == "date"
}

type LaboratoryQuery struct {
	PatientID      string `json:"patient_id" validate:"required,max=64"`
	Analyte        string `json:"analyte" validate:"required,analyte"`
	HistoryVersion string `json:"history_version" validate:"omitempty,numeric,max=16"`
}
