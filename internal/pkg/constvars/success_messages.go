package constvars

const (
	GetProviderRowsSuccessMessage  = "Successfully retrieved per-provider indicator rows"
	GetTrendRowsSuccessMessage     = "Successfully retrieved monthly indicator trend"
	GetBreakdownRowsSuccessMessage = "Successfully retrieved indicator breakdown"
	GetFlaggedCasesSuccessMessage  = "Successfully retrieved flagged case details"
	BuildHierarchySuccessMessage   = "Successfully built organization hierarchy"
	GenerateCasesSuccessMessage    = "Successfully generated synthetic cases"
	SyncReportSuccessMessage       = "Successfully synced indicator report"
)
