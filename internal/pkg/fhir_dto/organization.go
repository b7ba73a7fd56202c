package fhir_dto

type Organization struct {
	ResourceType string       `json:"resourceType,omitempty"`
	ID           string       `json:"id,omitempty"`
	Active       bool         `json:"active,omitempty"`
	Identifier   []Identifier `json:"identifier,omitempty"`
	Name         string       `json:"name,omitempty"`
	PartOf       Reference    `json:"partOf,omitempty"`
}
