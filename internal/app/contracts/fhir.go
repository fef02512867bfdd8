package contracts

import (
	"context"
	"ips-timeline-service/internal/pkg/accessor"
	"ips-timeline-service/internal/pkg/fhir_dto"
)

type ClinicalResourceFhirClient interface {
	FindResourceByReference(ctx context.Context, reference string) (accessor.Node, error)
}

type CompositionFhirClient interface {
	FindCompositionByPatientID(ctx context.Context, patientID string) (*fhir_dto.CompositionDocument, error)
	FindCompositionHistory(ctx context.Context, compositionID, versionID string) (*fhir_dto.CompositionDocument, error)
	FindCompositions(ctx context.Context) ([]*fhir_dto.CompositionDocument, error)
	UpdateComposition(ctx context.Context, compositionID string, resource map[string]interface{}) (*fhir_dto.CompositionDocument, error)
	FetchComposition(ctx context.Context, patientID, historyVersion string) (*fhir_dto.CompositionDocument, error)
}
