package fhir_dto

type Encounter struct {
	ResourceType    string                    `json:"resourceType,omitempty"`
	ID              string                    `json:"id,omitempty"`
	Status          string                    `json:"status,omitempty"`
	Class           Coding                    `json:"class,omitempty"`
	Subject         Reference                 `json:"subject,omitempty"`
	Period          Period                    `json:"period,omitempty"`
	Hospitalization *EncounterHospitalization `json:"hospitalization,omitempty"`
	ServiceProvider Reference                 `json:"serviceProvider,omitempty"`
}

type EncounterHospitalization struct {
	DischargeDisposition CodeableConcept `json:"dischargeDisposition,omitempty"`
}

// DischargeDispositionCode returns the first disposition coding, or an empty
// string when the hospitalization block is absent.
func (e Encounter) DischargeDispositionCode() string {
	if e.Hospitalization == nil {
		return ""
	}
	for _, coding := range e.Hospitalization.DischargeDisposition.Coding {
		if coding.Code != "" {
			return coding.Code
		}
	}
	return ""
}
