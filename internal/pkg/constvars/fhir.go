package constvars

const (
	ResourceBundle                   = "Bundle"
	ResourcePatient                  = "Patient"
	ResourceComposition              = "Composition"
	ResourceObservation              = "Observation"
	ResourceCondition                = "Condition"
	ResourceAllergyIntolerance       = "AllergyIntolerance"
	ResourceMedicationRequest        = "MedicationRequest"
	ResourceMedicationStatement      = "MedicationStatement"
	ResourceMedicationAdministration = "MedicationAdministration"
	ResourceMedicationDispense       = "MedicationDispense"
	ResourceOperationOutcome         = "OperationOutcome"
	ResourceClinicalData             = "clinical resource"
)

const (
	FhirSearchParamPatient = "patient"
	FhirHistorySegment     = "_history"
)

const (
	FhirSystemLoinc = "http://loinc.org"
)

// LOINC codes of the IPS Composition sections.
const (
	LoincSectionResults       = "30954-2"
	LoincSectionMedications   = "10160-0"
	LoincSectionProblems      = "11450-4"
	LoincSectionAllergies     = "48765-2"
	LoincSectionVitalSigns    = "8716-3"
	LoincSectionSocialHistory = "29762-2"
)

// Section titles used by Compositions without section codes.
const (
	SectionTitleResults       = "Results Summary"
	SectionTitleMedications   = "Medication Summary"
	SectionTitleProblems      = "Problems Summary"
	SectionTitleAllergies     = "Allergies Summary"
	SectionTitleVitalSigns    = "Vital Signs Summary"
	SectionTitleSocialHistory = "Social History Summary"
)

// LOINC codes of the analytes charted on the laboratory view.
const (
	LoincGlucoseSerumPlasma = "14749-6"
	LoincHemoglobinA1c      = "4548-4"
)
