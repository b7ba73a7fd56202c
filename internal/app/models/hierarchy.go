package models

// HospitalTemplate declares one hospital and its baseline risk multiplier
// before the hierarchy has been written to the store.
type HospitalTemplate struct {
	Code       string
	Name       string
	RiskFactor float64
}

// DepartmentTemplate declares one department copy created under every
// hospital, with its doctor surnames and procedure types.
type DepartmentTemplate struct {
	Code           string
	Name           string
	DoctorSurnames []string
	Procedures     []ProcedureTemplate
}

type ProcedureTemplate struct {
	Code    string
	Display string
}

// Hierarchy is the persisted organization tree: read-only once built, shared
// by all concurrent case generations.
type Hierarchy struct {
	Hospitals []HospitalNode `json:"hospitals"`
}

type HospitalNode struct {
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	RiskFactor  float64          `json:"risk_factor"`
	Departments []DepartmentNode `json:"departments"`
}

type DepartmentNode struct {
	OrgID      string              `json:"org_id"`
	Name       string              `json:"name"`
	Doctors    []DoctorNode        `json:"doctors"`
	Procedures []ProcedureTemplate `json:"procedures"`
}

type DoctorNode struct {
	PractitionerID string `json:"practitioner_id"`
	Name           string `json:"name"`
}

func (h Hierarchy) Empty() bool {
	return len(h.Hospitals) == 0
}
