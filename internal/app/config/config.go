package config

import (
	"strings"

	"kpim-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "kpim"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "kpim-reports"),
			UseSSL:     utils.GetEnvBool("MINIO_USE_SSL", false),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:             utils.GetEnvString("APP_ENV", "development"),
			Port:            utils.GetEnvString("APP_PORT", ":8080"),
			Version:         utils.GetEnvString("APP_VERSION", "v1"),
			EndpointPrefix:  utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			Timezone:        utils.GetEnvString("APP_TIMEZONE", "Asia/Taipei"),
			MaxRequests:     utils.GetEnvInt("APP_MAX_REQUEST", 10),
			ShutdownTimeout: utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			CacheTTLSeconds: utils.GetEnvInt("APP_CACHE_TTL_SECONDS", 300),
		},
		FHIR: FHIR{
			BaseUrl:           utils.GetEnvString("FHIR_BASE_URL", "http://localhost:5555/fhir"),
			RequestsPerSecond: utils.GetEnvFloat("FHIR_REQUESTS_PER_SECOND", 10),
			RequestBurst:      utils.GetEnvInt("FHIR_REQUEST_BURST", 5),
		},
		Indicator: Indicator{
			WindowHours:          utils.GetEnvInt("INDICATOR_WINDOW_HOURS", 48),
			AdverseDispositions:  splitCSV(utils.GetEnvString("INDICATOR_ADVERSE_DISPOSITIONS", "aadvice,exp")),
			RiskThresholdPercent: utils.GetEnvFloat("INDICATOR_RISK_THRESHOLD", 2.0),
			FetchChunkSize:       utils.GetEnvInt("INDICATOR_FETCH_CHUNK_SIZE", 50),
			LookbackDays:         utils.GetEnvInt("INDICATOR_LOOKBACK_DAYS", 180),
			InpatientOnly:        utils.GetEnvBool("INDICATOR_INPATIENT_ONLY", false),
			MaxProcedures:        utils.GetEnvInt("INDICATOR_MAX_PROCEDURES", 200),
		},
		Synthesizer: Synthesizer{
			WriteChunkSize:  utils.GetEnvInt("SYNTH_WRITE_CHUNK_SIZE", 20),
			TotalCases:      utils.GetEnvInt("SYNTH_TOTAL_CASES", 300),
			DaysBack:        utils.GetEnvInt("SYNTH_DAYS_BACK", 180),
			BaseRate:        utils.GetEnvFloat("SYNTH_BASE_RATE", 0.015),
			AnomalyStartDay: utils.GetEnvInt("SYNTH_ANOMALY_START_DAY", 60),
			AnomalyEndDay:   utils.GetEnvInt("SYNTH_ANOMALY_END_DAY", 90),
			AnomalyBump:     utils.GetEnvFloat("SYNTH_ANOMALY_BUMP", 0.08),
			NoiseAmplitude:  utils.GetEnvFloat("SYNTH_NOISE", 0.005),
			DeathSplit:      utils.GetEnvFloat("SYNTH_DEATH_SPLIT", 0.6),
		},
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
