package constvars

// Client-facing messages
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNoIndicatorData               = "no indicator data available for the requested range"
)

// Developer-facing messages
const (
	ErrDevInvalidInput          = "invalid input"
	ErrDevValidationFailed      = "validation failed"
	ErrDevInvalidRequestPayload = "invalid request payload"
	ErrDevCannotParseJSON       = "cannot parse JSON"
	ErrDevCannotMarshalJSON     = "cannot marshal JSON"
	ErrDevCannotParseTimestamp  = "cannot parse FHIR timestamp"
	ErrDevServerDeadlineExceeded = "server deadline exceeded"

	ErrDevCreateHTTPRequest = "failed to create HTTP request"
	ErrDevSendHTTPRequest   = "failed to send HTTP request"

	ErrDevFhirCreateResource  = "failed to create FHIR %s"
	ErrDevFhirGetResource     = "failed to get FHIR %s"
	ErrDevFhirDecodeResponse  = "failed to decode FHIR %s response"
	ErrDevFhirSearchResource  = "failed to search FHIR %s"
	ErrDevFhirRateLimiterWait = "outbound FHIR rate limiter interrupted"

	ErrDevRedisSet       = "failed to set redis key"
	ErrDevRedisGetNoData = "failed to get data from redis with key: %s"
	ErrDevRedisDelete    = "failed to delete redis key"

	ErrDevMongoDBInsertDocument   = "failed to insert document(s) to mongoDB"
	ErrDevMongoDBFindDocument     = "failed to find document(s) in mongoDB"
	ErrDevMongoDBDeleteDocument   = "failed to delete document(s) in mongoDB"
	ErrDevMongoDBIterateDocuments = "failed to iterate documents from mongoDB"

	ErrDevMinioCreateObject = "failed to create object in bucket: %s"

	ErrDevQueueDeclare = "failed to declare queue"
	ErrDevQueuePublish = "failed to publish message to queue"

	ErrDevHierarchyNotBuilt  = "organization hierarchy has not been built"
	ErrDevPersistCase        = "failed to persist synthetic case resources"
	ErrDevGenerateBatch      = "synthetic batch finished with failed cases"
)
