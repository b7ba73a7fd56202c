package fhir_dto

type Practitioner struct {
	ResourceType string      `json:"resourceType,omitempty"`
	ID           string      `json:"id,omitempty"`
	Active       bool        `json:"active,omitempty"`
	Name         []HumanName `json:"name,omitempty"`
}

// DisplayName returns the practitioner's text name, or the first
// family/given combination when no text form is present.
func (p Practitioner) DisplayName() string {
	for _, name := range p.Name {
		if name.Text != "" {
			return name.Text
		}
		if name.Family != "" && len(name.Given) > 0 {
			return name.Family + " " + name.Given[0]
		}
	}
	return ""
}
