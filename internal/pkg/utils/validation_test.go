package utils

import (
	"ips-timeline-service/internal/pkg/dto/requests"
	"ips-timeline-service/internal/pkg/exceptions"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStruct_AttachEntry(t *testing.T) {
	valid := requests.AttachEntry{Section: "Results", Reference: "Observation/o1"}
	assert.NoError(t, ValidateStruct(valid))

	invalid := requests.AttachEntry{Section: "Results", Reference: "not a reference"}
	err := ValidateStruct(invalid)
	assert.Error(t, err)
	assert.Equal(t, "reference must look like ResourceType/id", exceptions.FormatFirstValidationError(err))
}

func TestValidateStruct_LaboratoryQuery(t *testing.T) {
	assert.NoError(t, ValidateStruct(requests.LaboratoryQuery{PatientID: "p1", Analyte: "glucose"}))
	assert.Error(t, ValidateStruct(requests.LaboratoryQuery{PatientID: "p1", Analyte: "cholesterol"}))
	assert.Error(t, ValidateStruct(requests.LaboratoryQuery{Analyte: "hba1c"}))
	assert.Error(t, ValidateStruct(requests.LaboratoryQuery{PatientID: "p1", Analyte: "hba1c", HistoryVersion: "v2"}))
}
