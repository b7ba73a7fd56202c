package requests

type GenerateCases struct {
	TotalCases int `json:"total_cases" validate:"required,gt=0,lte=10000"`
	DaysBack   int `json:"days_back" validate:"omitempty,gt=0,lte=3650"`
}
