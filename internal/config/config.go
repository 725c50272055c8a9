package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-history/internal/platform/logging"
	"github.com/riskibarqy/match-history/internal/platform/resilience"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	LogLevel       logging.Level

	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	SwaggerEnabled     bool

	// DBURL empty runs the service on the in-process store.
	DBURL                   string
	DBDisablePreparedBinary bool
	DBMaxOpenConns          int
	DBMaxIdleConns          int

	CacheBackend      string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	RedisKeyPrefix    string
	AggregateCacheTTL time.Duration

	GameStatsBaseURL              string
	GameStatsAPIKey               string
	GameStatsTimeout              time.Duration
	GameStatsMaxRetries           int
	GameStatsRetryInitialInterval time.Duration
	GameStatsRetryMaxInterval     time.Duration
	GameStatsCircuit              resilience.CircuitBreakerConfig
	GameStatsPageSize             int

	GateLockTTL             time.Duration
	GateFetchingTTL         time.Duration
	GateRecentlySyncedTTL   time.Duration
	GatePollInterval        time.Duration
	GatePollMaxAttempts     int
	GateDefaultDesiredCount int
	GateMaxDesiredCount     int

	FetchWorkerCount int

	ExtractionMode      string
	InternalJobToken    string
	QStashEnabled       bool
	QStashBaseURL       string
	QStashToken         string
	QStashTargetBaseURL string
	QStashRetries       int
	QStashCircuit       resilience.CircuitBreakerConfig

	ExtractionSweepEnabled   bool
	ExtractionSweepSchedule  string
	ExtractionSweepMinAge    time.Duration
	ExtractionSweepBatchSize int

	WarmRefreshEnabled   bool
	WarmRefreshSchedule  string
	WarmRefreshLookback  time.Duration
	WarmRefreshBatchSize int

	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	PprofEnabled               bool
	PprofAddr                  string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:         appEnv,
		ServiceName:    getEnv("SERVICE_NAME", "match-history-api"),
		ServiceVersion: getEnv("SERVICE_VERSION", "dev"),
		LogLevel:       parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
	}

	if err := loadHTTP(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadStorage(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadGameStats(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadGate(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadExtraction(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadWarmRefresh(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadHTTP(cfg *Config) error {
	swaggerDefault := "true"
	if cfg.AppEnv == EnvProd {
		swaggerDefault = "false"
	}
	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", "10s")
	if err != nil {
		return err
	}
	// Blocking match requests wait for a whole sync cycle.
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", "60s")
	if err != nil {
		return err
	}

	cfg.SwaggerEnabled = swaggerEnabled
	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	return nil
}

func loadStorage(cfg *Config) error {
	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	if cfg.DBMaxOpenConns, err = getEnvAsInt("DB_MAX_OPEN_CONNS", 20); err != nil {
		return fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.DBMaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if cfg.DBMaxIdleConns, err = getEnvAsInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return fmt.Errorf("parse DB_MAX_IDLE_CONNS: %w", err)
	}
	if cfg.DBMaxIdleConns < 0 {
		return fmt.Errorf("DB_MAX_IDLE_CONNS must be >= 0")
	}

	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(getEnv("CACHE_BACKEND", CacheBackendMemory)))
	switch cfg.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: valid values are %s, %s", cfg.CacheBackend, CacheBackendMemory, CacheBackendRedis)
	}
	cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379"))
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisKeyPrefix = getEnv("REDIS_KEY_PREFIX", "mh:")
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must be >= 0")
	}
	if cfg.CacheBackend == CacheBackendRedis && cfg.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND=redis")
	}

	if cfg.AggregateCacheTTL, err = getEnvAsPositiveDuration("AGGREGATE_CACHE_TTL", "10m"); err != nil {
		return err
	}
	return nil
}

func loadGameStats(cfg *Config) error {
	var err error
	cfg.GameStatsBaseURL = strings.TrimSpace(getEnv("GAMESTATS_BASE_URL", "https://open.api.nexon.com/fconline/v1"))
	cfg.GameStatsAPIKey = strings.TrimSpace(getEnv("GAMESTATS_API_KEY", ""))
	if cfg.AppEnv == EnvProd && cfg.GameStatsAPIKey == "" {
		return fmt.Errorf("GAMESTATS_API_KEY is required when APP_ENV=prod")
	}

	if cfg.GameStatsTimeout, err = getEnvAsPositiveDuration("GAMESTATS_TIMEOUT", "15s"); err != nil {
		return err
	}
	if cfg.GameStatsMaxRetries, err = getEnvAsInt("GAMESTATS_MAX_RETRIES", 3); err != nil {
		return fmt.Errorf("parse GAMESTATS_MAX_RETRIES: %w", err)
	}
	if cfg.GameStatsMaxRetries < 0 {
		return fmt.Errorf("GAMESTATS_MAX_RETRIES must be >= 0")
	}
	if cfg.GameStatsRetryInitialInterval, err = getEnvAsPositiveDuration("GAMESTATS_RETRY_INITIAL_INTERVAL", "500ms"); err != nil {
		return err
	}
	if cfg.GameStatsRetryMaxInterval, err = getEnvAsPositiveDuration("GAMESTATS_RETRY_MAX_INTERVAL", "10s"); err != nil {
		return err
	}
	if cfg.GameStatsCircuit, err = loadCircuit("GAMESTATS"); err != nil {
		return err
	}
	if cfg.GameStatsPageSize, err = getEnvAsInt("GAMESTATS_PAGE_SIZE", 100); err != nil {
		return fmt.Errorf("parse GAMESTATS_PAGE_SIZE: %w", err)
	}
	if cfg.GameStatsPageSize < 1 || cfg.GameStatsPageSize > 100 {
		return fmt.Errorf("GAMESTATS_PAGE_SIZE must be between 1 and 100")
	}
	return nil
}

func loadGate(cfg *Config) error {
	var err error
	if cfg.GateLockTTL, err = getEnvAsPositiveDuration("GATE_LOCK_TTL", "2m"); err != nil {
		return err
	}
	if cfg.GateFetchingTTL, err = getEnvAsPositiveDuration("GATE_FETCHING_TTL", "2m"); err != nil {
		return err
	}
	if cfg.GateRecentlySyncedTTL, err = getEnvAsPositiveDuration("GATE_RECENTLY_SYNCED_TTL", "5m"); err != nil {
		return err
	}
	if cfg.GatePollInterval, err = getEnvAsPositiveDuration("GATE_POLL_INTERVAL", "500ms"); err != nil {
		return err
	}
	if cfg.GatePollMaxAttempts, err = getEnvAsInt("GATE_POLL_MAX_ATTEMPTS", 20); err != nil {
		return fmt.Errorf("parse GATE_POLL_MAX_ATTEMPTS: %w", err)
	}
	if cfg.GatePollMaxAttempts < 1 {
		return fmt.Errorf("GATE_POLL_MAX_ATTEMPTS must be >= 1")
	}
	if cfg.GateDefaultDesiredCount, err = getEnvAsInt("GATE_DEFAULT_DESIRED_COUNT", 20); err != nil {
		return fmt.Errorf("parse GATE_DEFAULT_DESIRED_COUNT: %w", err)
	}
	if cfg.GateMaxDesiredCount, err = getEnvAsInt("GATE_MAX_DESIRED_COUNT", 100); err != nil {
		return fmt.Errorf("parse GATE_MAX_DESIRED_COUNT: %w", err)
	}
	if cfg.GateDefaultDesiredCount < 1 {
		return fmt.Errorf("GATE_DEFAULT_DESIRED_COUNT must be >= 1")
	}
	if cfg.GateMaxDesiredCount < cfg.GateDefaultDesiredCount {
		return fmt.Errorf("GATE_MAX_DESIRED_COUNT must be >= GATE_DEFAULT_DESIRED_COUNT")
	}

	if cfg.FetchWorkerCount, err = getEnvAsInt("FETCH_WORKER_COUNT", 8); err != nil {
		return fmt.Errorf("parse FETCH_WORKER_COUNT: %w", err)
	}
	if cfg.FetchWorkerCount < 1 {
		return fmt.Errorf("FETCH_WORKER_COUNT must be >= 1")
	}
	return nil
}

func loadExtraction(cfg *Config) error {
	cfg.ExtractionMode = strings.ToLower(strings.TrimSpace(getEnv("EXTRACTION_MODE", "inline")))
	if cfg.ExtractionMode != "inline" && cfg.ExtractionMode != "queue" {
		return fmt.Errorf("invalid EXTRACTION_MODE %q: valid values are inline, queue", cfg.ExtractionMode)
	}

	qstashEnabled, err := strconv.ParseBool(getEnv("QSTASH_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse QSTASH_ENABLED: %w", err)
	}
	cfg.QStashEnabled = qstashEnabled
	if cfg.QStashRetries, err = getEnvAsInt("QSTASH_RETRIES", 3); err != nil {
		return fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if cfg.QStashRetries < 0 {
		return fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	if cfg.QStashCircuit, err = loadCircuit("QSTASH"); err != nil {
		return err
	}
	cfg.QStashBaseURL = strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	cfg.QStashToken = strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	cfg.QStashTargetBaseURL = strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	cfg.InternalJobToken = strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))

	if err := loadExtractionSweep(cfg); err != nil {
		return err
	}

	if cfg.ExtractionMode == "queue" && !cfg.QStashEnabled {
		return fmt.Errorf("QSTASH_ENABLED=true is required when EXTRACTION_MODE=queue")
	}
	if cfg.QStashEnabled {
		if cfg.QStashToken == "" {
			return fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if cfg.QStashTargetBaseURL == "" {
			return fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if cfg.InternalJobToken == "" {
			return fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}
	return nil
}

func loadExtractionSweep(cfg *Config) error {
	enabled, err := strconv.ParseBool(getEnv("EXTRACTION_SWEEP_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse EXTRACTION_SWEEP_ENABLED: %w", err)
	}
	cfg.ExtractionSweepEnabled = enabled
	cfg.ExtractionSweepSchedule = strings.TrimSpace(getEnv("EXTRACTION_SWEEP_SCHEDULE", "0 */5 * * * *"))
	if enabled && cfg.ExtractionSweepSchedule == "" {
		return fmt.Errorf("EXTRACTION_SWEEP_SCHEDULE is required when EXTRACTION_SWEEP_ENABLED=true")
	}
	if cfg.ExtractionSweepMinAge, err = getEnvAsPositiveDuration("EXTRACTION_SWEEP_MIN_AGE", "10m"); err != nil {
		return err
	}
	if cfg.ExtractionSweepBatchSize, err = getEnvAsInt("EXTRACTION_SWEEP_BATCH_SIZE", 100); err != nil {
		return fmt.Errorf("parse EXTRACTION_SWEEP_BATCH_SIZE: %w", err)
	}
	if cfg.ExtractionSweepBatchSize < 1 {
		return fmt.Errorf("EXTRACTION_SWEEP_BATCH_SIZE must be >= 1")
	}
	return nil
}

func loadWarmRefresh(cfg *Config) error {
	enabled, err := strconv.ParseBool(getEnv("WARM_REFRESH_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse WARM_REFRESH_ENABLED: %w", err)
	}
	cfg.WarmRefreshEnabled = enabled
	cfg.WarmRefreshSchedule = strings.TrimSpace(getEnv("WARM_REFRESH_SCHEDULE", "0 */15 * * * *"))
	if enabled && cfg.WarmRefreshSchedule == "" {
		return fmt.Errorf("WARM_REFRESH_SCHEDULE is required when WARM_REFRESH_ENABLED=true")
	}
	if cfg.WarmRefreshLookback, err = getEnvAsPositiveDuration("WARM_REFRESH_LOOKBACK", "24h"); err != nil {
		return err
	}
	if cfg.WarmRefreshBatchSize, err = getEnvAsInt("WARM_REFRESH_BATCH_SIZE", 50); err != nil {
		return fmt.Errorf("parse WARM_REFRESH_BATCH_SIZE: %w", err)
	}
	if cfg.WarmRefreshBatchSize < 1 {
		return fmt.Errorf("WARM_REFRESH_BATCH_SIZE must be >= 1")
	}
	return nil
}

func loadObservability(cfg *Config) error {
	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = uptraceDSN
	cfg.UptraceLogsEnabled = uptraceLogsEnabled

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	return nil
}

func loadCircuit(prefix string) (resilience.CircuitBreakerConfig, error) {
	enabled, err := strconv.ParseBool(getEnv(prefix+"_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_ENABLED: %w", prefix, err)
	}
	failureCount, err := getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if failureCount < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be >= 1", prefix)
	}
	openTimeout, err := getEnvAsPositiveDuration(prefix+"_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return resilience.CircuitBreakerConfig{}, err
	}
	halfOpenMaxReq, err := getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if halfOpenMaxReq < 1 {
		return resilience.CircuitBreakerConfig{}, fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}

	return resilience.CircuitBreakerConfig{
		Enabled:          enabled,
		FailureThreshold: failureCount,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMaxReq,
	}, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
	out, err := getEnvAsDuration(key, fallback)
	if err != nil {
		return 0, err
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
