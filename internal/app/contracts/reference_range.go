package contracts

import (
	"context"
	"ips-timeline-service/internal/pkg/dto/requests"
	"ips-timeline-service/internal/pkg/dto/responses"
)

type ReferenceRangeUsecase interface {
	FindAll(ctx context.Context) ([]responses.ReferenceRange, error)
	FindByAnalyte(ctx context.Context, analyte string) (*responses.ReferenceRange, error)
	Classify(ctx context.Context, analyte string, request *requests.ClassifyValue) (*responses.Classification, error)
}
