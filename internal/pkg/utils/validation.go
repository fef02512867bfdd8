package utils

import (
	"ips-timeline-service/internal/pkg/constvars"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("fhir_reference", validateFhirReference)
	validate.RegisterValidation("analyte", validateAnalyte)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateFhirReference(fl validator.FieldLevel) bool {
	_, _, err := ParseReference(fl.Field().String())
	return err == nil
}

func validateAnalyte(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == constvars.AnalyteGlucose || value == constvars.AnalyteHbA1c
}
