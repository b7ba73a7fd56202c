package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	RedisKeyProviderRows  = "kpim:indicator:providers"
	RedisKeyTrendRows     = "kpim:indicator:trend"
	RedisKeyBreakdownRows = "kpim:indicator:breakdown"
	RedisKeyFlaggedCases  = "kpim:indicator:flagged_cases"
)

const (
	MongoCollectionProviderRows  = "kpi_provider_rows"
	MongoCollectionTrendRows     = "kpi_trend_rows"
	MongoCollectionBreakdownRows = "kpi_breakdown_rows"
	MongoCollectionSyncRuns      = "kpi_sync_runs"
)

// IndicatorName identifies the single indicator this service computes.
const IndicatorName = "postop-adverse-48h"

const (
	AggregateStatusNormal  = "normal"
	AggregateStatusFlagged = "flagged"
)

const ResponseUnknown = "unknown"
