package clinical_resources

import (
	"context"
	"ips-timeline-service/internal/app/contracts"
	"ips-timeline-service/internal/app/services/fhir_spark/fhirhttp"
	"ips-timeline-service/internal/pkg/accessor"
	"ips-timeline-service/internal/pkg/constvars"
	"ips-timeline-service/internal/pkg/exceptions"
	"ips-timeline-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type clinicalResourceFhirClient struct {
	Requester *fhirhttp.Requester
	Log       *zap.Logger
}

func NewClinicalResourceFhirClient(requester *fhirhttp.Requester, logger *zap.Logger) contracts.ClinicalResourceFhirClient {
	return &clinicalResourceFhirClient{
		Requester: requester,
		Log:       logger,
	}
}

// FindResourceByReference resolves a literal reference such as
// "Observation/123" against the FHIR server.
func (c *clinicalResourceFhirClient) FindResourceByReference(ctx context.Context, reference string) (accessor.Node, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.Log.Debug("clinicalResourceFhirClient.FindResourceByReference called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReferenceKey, reference),
	)

	resourceType, id, err := utils.ParseReference(reference)
	if err != nil {
		c.Log.Warn("clinicalResourceFhirClient.FindResourceByReference invalid reference",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingReferenceKey, reference),
			zap.Error(err),
		)
		return accessor.Missing, exceptions.ErrInvalidReference(err, reference)
	}

	var resource accessor.Node
	err = c.Requester.Get(ctx, c.Requester.URL(nil, resourceType, id), resourceType, &resource)
	if err != nil {
		return accessor.Missing, err
	}
	if resource.Kind() != accessor.KindMapping {
		return accessor.Missing, exceptions.ErrNoDataFHIRResource(nil, resourceType)
	}

	c.Log.Debug("clinicalResourceFhirClient.FindResourceByReference succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingReferenceKey, reference),
		zap.String(constvars.LoggingResourceTypeKey, resourceType),
	)
	return resource, nil
}
