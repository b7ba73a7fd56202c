package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingMethodKey        = "method"
	LoggingEndpointKey      = "endpoint"
	LoggingRemoteAddrKey    = "remote_addr"
	LoggingQueryKey         = "query"
	LoggingStatusCodeKey    = "status_code"
	LoggingDurationKey      = "duration"
	LoggingSuccessKey       = "success"
	LoggingFhirUrlKey       = "fhir_url"
	LoggingResourceTypeKey  = "resource_type"
	LoggingResourceIDKey    = "resource_id"
	LoggingChunkIndexKey    = "chunk_index"
	LoggingChunkSizeKey     = "chunk_size"
	LoggingIDCountKey       = "id_count"
	LoggingCaseCountKey     = "case_count"
	LoggingDroppedCountKey  = "dropped_count"
	LoggingRowCountKey      = "row_count"
	LoggingTableNameKey     = "table_name"
	LoggingHospitalKey      = "hospital"
	LoggingDepartmentKey    = "department"
	LoggingDoctorKey        = "doctor"
	LoggingIndicatorKey     = "indicator"
	LoggingObjectNameKey    = "object_name"
	LoggingQueueNameKey     = "queue_name"
	LoggingErrorCodeKey     = "error_code"
	LoggingErrorMessageKey  = "error_message"
	LoggingOperationKey     = "operation"
)
