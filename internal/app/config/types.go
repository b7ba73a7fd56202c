package config

type DriverConfig struct {
	MongoDB  MongoDB
	Redis    Redis
	RabbitMQ RabbitMQ
	Minio    Minio
	Logger   Logger
}

type MongoDB struct {
	Port     string
	Host     string
	DbName   string
	Username string
	Password string
}

type Redis struct {
	Host     string
	Port     string
	Password string
}

type RabbitMQ struct {
	Port     string
	Host     string
	Username string
	Password string
}

type Minio struct {
	Port       string
	Host       string
	Username   string
	Password   string
	BucketName string
	UseSSL     bool
}

type Logger struct {
	Level               string
	OutputFileName      string
	OutputErrorFileName string
}

type InternalConfig struct {
	App         App
	FHIR        FHIR
	Indicator   Indicator
	Synthesizer Synthesizer
}

type App struct {
	Env             string
	Port            string
	Version         string
	EndpointPrefix  string
	Timezone        string
	MaxRequests     int
	ShutdownTimeout int
	CacheTTLSeconds int
}

type FHIR struct {
	BaseUrl           string
	RequestsPerSecond float64
	RequestBurst      int
}

type Indicator struct {
	WindowHours          int
	AdverseDispositions  []string
	RiskThresholdPercent float64
	FetchChunkSize       int
	LookbackDays         int
	InpatientOnly        bool
	MaxProcedures        int
}

type Synthesizer struct {
	WriteChunkSize  int
	TotalCases      int
	DaysBack        int
	BaseRate        float64
	AnomalyStartDay int
	AnomalyEndDay   int
	AnomalyBump     float64
	NoiseAmplitude  float64
	DeathSplit      float64
}
