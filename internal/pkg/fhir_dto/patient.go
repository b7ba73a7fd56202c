package fhir_dto

type Patient struct {
	ResourceType     string      `json:"resourceType,omitempty"`
	ID               string      `json:"id,omitempty"`
	Active           bool        `json:"active,omitempty"`
	Name             []HumanName `json:"name,omitempty"`
	Gender           string      `json:"gender,omitempty"`
	BirthDate        string      `json:"birthDate,omitempty"`
	DeceasedDateTime string      `json:"deceasedDateTime,omitempty"`
}
