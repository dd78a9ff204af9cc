package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aresdata/esports-etl/internal/platform/logging"
)

// GameSpec is one title the pipeline syncs, parsed from the GAMES variable.
type GameSpec struct {
	ID   string
	Wiki string
	Name string
	// FetchSince floors tournament start dates and the match series window
	// for this game. Nil means no lower bound.
	FetchSince *time.Time
}

// Config stores runtime configuration for the pipeline.
type Config struct {
	AppEnv                     string
	ServiceName                string
	ServiceVersion             string
	DBURL                      string
	DBDisablePreparedBinary    bool
	LiquipediaBaseURL          string
	LiquipediaAPIKey           string
	LiquipediaUserAgent        string
	LiquipediaRequestDelay     time.Duration
	LiquipediaPageLimit        int
	LiquipediaTimeout          time.Duration
	Games                      []GameSpec
	TeamCacheTTL               time.Duration
	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
	LogLevel                   logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	serviceName := strings.TrimSpace(getEnv("SERVICE_NAME", "esports-etl"))
	serviceVersion := strings.TrimSpace(getEnv("SERVICE_VERSION", "dev"))

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	apiKey := strings.TrimSpace(getEnv("LIQUIPEDIA_API_KEY", ""))
	if apiKey == "" {
		return Config{}, fmt.Errorf("LIQUIPEDIA_API_KEY is required")
	}
	userAgent := strings.TrimSpace(getEnv("LIQUIPEDIA_USER_AGENT", ""))
	if userAgent == "" {
		userAgent = serviceName + "/" + serviceVersion
		if contact := strings.TrimSpace(getEnv("LIQUIPEDIA_CONTACT", "")); contact != "" {
			userAgent += " (" + contact + ")"
		}
	}
	requestDelay, err := time.ParseDuration(getEnv("LIQUIPEDIA_REQUEST_DELAY", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIQUIPEDIA_REQUEST_DELAY: %w", err)
	}
	if requestDelay <= 0 {
		return Config{}, fmt.Errorf("LIQUIPEDIA_REQUEST_DELAY must be > 0")
	}
	pageLimit, err := getEnvAsInt("LIQUIPEDIA_PAGE_LIMIT", 1000)
	if err != nil {
		return Config{}, fmt.Errorf("parse LIQUIPEDIA_PAGE_LIMIT: %w", err)
	}
	if pageLimit <= 0 || pageLimit > 1000 {
		return Config{}, fmt.Errorf("LIQUIPEDIA_PAGE_LIMIT must be in 1..1000")
	}
	liquipediaTimeout, err := time.ParseDuration(getEnv("LIQUIPEDIA_TIMEOUT", "45s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LIQUIPEDIA_TIMEOUT: %w", err)
	}
	if liquipediaTimeout <= 0 {
		return Config{}, fmt.Errorf("LIQUIPEDIA_TIMEOUT must be > 0")
	}

	games, err := parseGames(getEnv("GAMES", "cs2:counterstrike:Counter-Strike 2"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GAMES: %w", err)
	}
	fetchSince, err := parseDateMap(getEnv("GAME_FETCH_SINCE", "cs2:2024-03-16"))
	if err != nil {
		return Config{}, fmt.Errorf("parse GAME_FETCH_SINCE: %w", err)
	}
	for i := range games {
		if since, ok := fetchSince[games[i].ID]; ok {
			games[i].FetchSince = &since
		}
	}

	teamCacheTTL, err := time.ParseDuration(getEnv("TEAM_CACHE_TTL", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse TEAM_CACHE_TTL: %w", err)
	}
	if teamCacheTTL <= 0 {
		return Config{}, fmt.Errorf("TEAM_CACHE_TTL must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	return Config{
		AppEnv:                     appEnv,
		ServiceName:                serviceName,
		ServiceVersion:             serviceVersion,
		DBURL:                      dbURL,
		DBDisablePreparedBinary:    dbDisablePreparedBinary,
		LiquipediaBaseURL:          strings.TrimSpace(getEnv("LIQUIPEDIA_BASE_URL", "https://api.liquipedia.net/api/v3")),
		LiquipediaAPIKey:           apiKey,
		LiquipediaUserAgent:        userAgent,
		LiquipediaRequestDelay:     requestDelay,
		LiquipediaPageLimit:        pageLimit,
		LiquipediaTimeout:          liquipediaTimeout,
		Games:                      games,
		TeamCacheTTL:               teamCacheTTL,
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAppName:           strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
		LogLevel:                   parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}, nil
}

// parseGames reads "id:wiki:Display Name" items separated by commas, e.g.
// "cs2:counterstrike:Counter-Strike 2,valorant:valorant:VALORANT". The
// display name is optional and defaults to the id.
func parseGames(raw string) ([]GameSpec, error) {
	items := splitCSV(raw)
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one game is required")
	}

	out := make([]GameSpec, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		segments := strings.SplitN(item, ":", 3)
		if len(segments) < 2 {
			return nil, fmt.Errorf("invalid game item %q, expected id:wiki[:name]", item)
		}

		id := strings.TrimSpace(segments[0])
		wiki := strings.TrimSpace(segments[1])
		if id == "" || wiki == "" {
			return nil, fmt.Errorf("empty id or wiki in game item %q", item)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("duplicate game id %q", id)
		}
		seen[id] = struct{}{}

		name := id
		if len(segments) == 3 && strings.TrimSpace(segments[2]) != "" {
			name = strings.TrimSpace(segments[2])
		}

		out = append(out, GameSpec{ID: id, Wiki: wiki, Name: name})
	}

	return out, nil
}

// parseDateMap reads "game_id:YYYY-MM-DD" items separated by commas.
func parseDateMap(raw string) (map[string]time.Time, error) {
	out := make(map[string]time.Time)
	for _, item := range splitCSV(raw) {
		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid date item %q, expected game_id:YYYY-MM-DD", item)
		}

		key := strings.TrimSpace(segments[0])
		if key == "" {
			return nil, fmt.Errorf("empty game id in item %q", item)
		}
		value, err := time.Parse(time.DateOnly, strings.TrimSpace(segments[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid date in item %q: %w", item, err)
		}

		out[key] = value
	}

	return out, nil
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
