package constvars

const (
	URLParamPatientID = "patient_id"
	URLParamAnalyte   = "analyte"
)

const (
	URLQueryParamHistoryVersion = "history_version"
	URLQueryParamFrom           = "from"
	URLQueryParamTo             = "to"
	URLQueryParamTitle          = "title"
	URLQueryParamReference      = "reference"
	URLQueryParamSort           = "sort"
)
