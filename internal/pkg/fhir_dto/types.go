package fhir_dto

type Reference struct {
	Reference string `json:"reference,omitempty"`
	Type      string `json:"type,omitempty"`
	Display   string `json:"display,omitempty"`
}

type CodeableConcept struct {
	Coding []Coding `json:"coding,omitempty"`
	Text   string   `json:"text,omitempty"`
}

type Coding struct {
	System  string `json:"system,omitempty"`
	Version string `json:"version,omitempty"`
	Code    string `json:"code,omitempty"`
	Display string `json:"display,omitempty"`
}

// Period carries FHIR instants as raw strings. Parsing happens at the
// classifier boundary so a malformed timestamp excludes one case instead of
// failing a whole bundle decode.
type Period struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type HumanName struct {
	Use    string   `json:"use,omitempty"`
	Text   string   `json:"text,omitempty"`
	Family string   `json:"family,omitempty"`
	Given  []string `json:"given,omitempty"`
}

type Identifier struct {
	Use    string `json:"use,omitempty"`
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
}

type OperationOutcome struct {
	ResourceType string `json:"resourceType,omitempty"`
	Issue        []struct {
		Severity    string `json:"severity,omitempty"`
		Code        string `json:"code,omitempty"`
		Diagnostics string `json:"diagnostics,omitempty"`
	} `json:"issue,omitempty"`
}
