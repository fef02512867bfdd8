package constvars

// Titles of the timeline entries.
const (
	TimelineTitleResults                   = "Results"
	TimelineTitleResultsGlucose            = "Results - Glucose Level"
	TimelineTitleResultsHemoglobinA1c      = "Results - Hemoglobin A1c"
	TimelineTitleMedicationRequests        = "Medication Requests"
	TimelineTitleMedicationStatements      = "Medication Statements"
	TimelineTitleMedicationAdministrations = "Medication Administrations"
	TimelineTitleMedicationDispenses       = "Medication Dispenses"
	TimelineTitleProblems                  = "Problems"
	TimelineTitleAllergyIntolerance        = "Allergy Intolerance"
	TimelineTitleVitalSigns                = "Vital Signs"
	TimelineTitleSocialHistory             = "Social History"
)

const (
	TimelineNameSocialHistory = "Observation - Other"
)

// Placeholders for absent fields.
const (
	PlaceholderNoValue       = "No value"
	PlaceholderNoVitalValue  = "No Value"
	PlaceholderNoName        = "No name"
	PlaceholderNoNote        = "No Note"
	PlaceholderNoMethod      = "No Method"
	PlaceholderNoReaction    = "No Reaction"
	PlaceholderNoCriticality = "No Criticality"
)

// JSON keys of a rendered timeline entry.
const (
	TimelineKeyTitle       = "Title"
	TimelineKeyName        = "Name"
	TimelineKeyDate        = "Date"
	TimelineKeyValue       = "Value"
	TimelineKeyReaction    = "Reaction"
	TimelineKeyCriticality = "Criticality"
	TimelineKeyNote        = "Note"
	TimelineKeyMethod      = "Method"
)

const (
	AnalyteGlucose = "glucose"
	AnalyteHbA1c   = "hba1c"

	UnitGlucose = "mg/dL"
	UnitHbA1c   = "%"
)
