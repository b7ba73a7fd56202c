package constvars

type ResourceType string

const (
	ResourcePatient      = "Patient"
	ResourceEncounter    = "Encounter"
	ResourceProcedure    = "Procedure"
	ResourcePractitioner = "Practitioner"
	ResourceOrganization = "Organization"
)

const (
	FhirEncounterClassSystem  = "http://terminology.hl7.org/CodeSystem/v3-ActCode"
	FhirEncounterClassInpatient = "IMP"
	FhirProcedureCodeSystemSNOMED = "http://snomed.info/sct"
)

const (
	FhirEncounterStatusFinished = "finished"
	FhirProcedureStatusCompleted = "completed"
)

const (
	FhirDispositionHome          = "home"
	FhirDispositionExpired       = "exp"
	FhirDispositionAgainstAdvice = "aadvice"
)

const (
	FhirGenderMale   = "male"
	FhirGenderFemale = "female"
)

// FhirInstantFormat is the timestamp layout the synthesizer writes and the
// classifier parses. The store may also return instants with a Z suffix.
const FhirInstantFormat = "2006-01-02T15:04:05+00:00"
