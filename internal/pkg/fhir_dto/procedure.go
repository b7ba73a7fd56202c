package fhir_dto

type Procedure struct {
	ResourceType    string               `json:"resourceType,omitempty"`
	ID              string               `json:"id,omitempty"`
	Status          string               `json:"status,omitempty"`
	Code            CodeableConcept      `json:"code,omitempty"`
	Subject         Reference            `json:"subject,omitempty"`
	Encounter       Reference            `json:"encounter,omitempty"`
	PerformedPeriod Period               `json:"performedPeriod,omitempty"`
	Performer       []ProcedurePerformer `json:"performer,omitempty"`
}

type ProcedurePerformer struct {
	Actor Reference `json:"actor,omitempty"`
}

// CodeDisplay returns the first coding display, falling back to the concept
// text, then a generic label. Mirrors how the dashboard names operations.
func (p Procedure) CodeDisplay() string {
	for _, coding := range p.Code.Coding {
		if coding.Display != "" {
			return coding.Display
		}
	}
	if p.Code.Text != "" {
		return p.Code.Text
	}
	return "Surgery"
}

// PerformerDisplay returns the first performer's display name, falling back
// to the raw reference so aggregation still has a stable provider key.
func (p Procedure) PerformerDisplay() string {
	if len(p.Performer) == 0 {
		return "Unknown"
	}
	actor := p.Performer[0].Actor
	if actor.Display != "" {
		return actor.Display
	}
	if actor.Reference != "" {
		return actor.Reference
	}
	return "Unknown"
}
