package constvars

// Validation messages for clients, mapped by validator tag
var CustomValidationErrorMessages = map[string]string{
	"required":       "is required",
	"max":            "maximum at %s characters long",
	"numeric":        "must be numeric",
	"fhir_reference": "must look like ResourceType/id",
	"analyte":        "must be one of glucose, hba1c",
	"oneof":          "must be one of %s",
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNoDataForPatient              = "no data available for this patient"
	ErrClientResourceNotFound              = "the requested resource was not found"
	ErrClientUnknownAnalyte                = "the requested analyte is not supported"
	ErrClientInvalidValue                  = "the value must be a finite number"
	ErrClientSectionNotFound               = "the composition has no such section"
)

// Error messages for developers
const (
	ErrDevCannotParseJSON                 = "failed to parse JSON"
	ErrDevCannotMarshalJSON               = "failed to marshal JSON"
	ErrDevValidationFailed                = "request validation failed"
	ErrDevCreateHTTPRequest               = "failed to create HTTP request"
	ErrDevSendHTTPRequest                 = "failed to send HTTP request"
	ErrDevServerDeadlineExceeded          = "server deadline exceeded"
	ErrDevServerProcess                   = "server failed to process the request"
	ErrDevRateLimiterWait                 = "outbound FHIR rate limiter aborted the request"
	ErrDevFHIRGetResource                 = "failed to get FHIR %s from FHIR server"
	ErrDevFHIRUpdateResource              = "failed to update FHIR %s on FHIR server"
	ErrDevFHIRNoDataResource              = "no data found from FHIR %s"
	ErrDevFHIRDecodeResourceResponse      = "failed to decode FHIR %s response from FHIR server"
	ErrDevFHIRInvalidReference            = "reference %q is not of the form ResourceType/id"
	ErrDevCompositionNotFound             = "no composition could be obtained for patient %s"
	ErrDevCompositionSectionNotFound      = "composition %s has no section %s"
	ErrDevReferenceRangeUnknownAnalyte    = "no reference range defined for analyte %q"
	ErrDevReferenceRangeNonFiniteValue    = "cannot classify non-finite value %v"
	ErrDevReferenceRangeNotNumeric        = "value %s has no leading number"
	ErrDevSessionStoreGet                 = "failed to get session from session store"
	ErrDevSessionStoreSave                = "failed to save session to session store"
	ErrDevSessionStoreDelete              = "failed to delete session from session store"
	ErrDevRedisGetNoData                  = "failed to get data from redis with key %s"
	ErrDevRedisSetData                    = "failed to set data to redis"
	ErrDevRedisDeleteData                 = "failed to delete data from redis"
	ErrDevRedisUnlock                     = "failed to release redis lock"
	ErrDevRabbitMQPublishMessage          = "failed to publish message to rabbitmq queue %s"
	ErrDevMissingRequestID                = "request id missing from context"
	ErrDevTimelineInvalidDateFilter       = "invalid %s date filter"
)
