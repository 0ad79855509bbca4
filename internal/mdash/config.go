package mdash

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kyri56xcaesar/pms-dash/internal/utils"
)

type Config struct {
	ConfigPath string
	Profile    string
	Verbose    bool
	ApiGinMode string

	Ip   string
	Port string

	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string

	// kc
	AuthEnabled  bool
	AuthAddress  string
	Issuer       string
	Audience     string
	Realm        string
	ClientID     string
	ClientSecret string

	// roster: "mock" or "keycloak"
	RosterSource string
	RosterMax    int

	DigestInterval time.Duration
	UpcomingWindow time.Duration

	LogLevel string
	LogFile  string
}

// LoadConfig reads the .env file at path, when present, then the environment.
// Missing file is not an error: defaults apply.
func LoadConfig(path string) (Config, error) {
	fileErr := godotenv.Load(path)

	s := strings.Split(path, "/")
	config := Config{
		ConfigPath: s[len(s)-1],
		Profile:    getEnv("PROFILE", "baremetal"),
		Verbose:    getBoolEnv("VERBOSE", "true"),
		ApiGinMode: getEnv("GIN_MODE", "debug"),

		Ip:             getEnv("IP", "localhost"),
		Port:           getEnv("PORT", "5060"),
		AllowedOrigins: getEnvFields("ALLOW_ORIGINS", []string{"*"}),
		AllowedMethods: getEnvFields("ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE"}),
		AllowedHeaders: getEnvFields("ALLOW_HEADERS", []string{"*"}),

		AuthEnabled:  getBoolEnv("AUTH_ENABLED", "false"),
		AuthAddress:  getEnv("AUTH_ADDRESS", "localhost:5555"),
		Issuer:       getEnv("KC_ISSUER", ""),
		Audience:     getEnv("KC_AUDIENCE", ""),
		Realm:        getEnv("KC_REALM", "pms-myproj"),
		ClientID:     getEnv("KC_CLIENT", "pms-dash"),
		ClientSecret: getEnv("KC_CLIENT_SECRET", ""),

		RosterSource: strings.ToLower(getEnv("ROSTER_SOURCE", "mock")),
		RosterMax:    getIntEnv("ROSTER_MAX", 200),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
	if config.Issuer == "" {
		config.Issuer = fmt.Sprintf("http://%s/realms/%s", config.AuthAddress, config.Realm)
	}

	var err error
	if config.DigestInterval, err = getDurationEnv("DIGEST_INTERVAL", "1h"); err != nil {
		return config, err
	}
	days := getIntEnv("UPCOMING_WINDOW_DAYS", 7)
	if days <= 0 {
		return config, fmt.Errorf("UPCOMING_WINDOW_DAYS must be positive, got %d", days)
	}
	config.UpcomingWindow = time.Duration(days) * 24 * time.Hour

	switch config.RosterSource {
	case "mock", "keycloak":
	default:
		return config, fmt.Errorf("unknown ROSTER_SOURCE %q", config.RosterSource)
	}

	if fileErr != nil {
		config.ConfigPath = ""
	}
	return config, nil
}

func getEnv(env, fallback string) string {
	if value, exists := os.LookupEnv(env); exists {
		return value
	}

	return fallback
}

func getEnvFields(env string, fallback []string) []string {
	if value, exists := os.LookupEnv(env); exists {
		return utils.SplitFields(value)
	}

	return fallback
}

func getBoolEnv(env, fallback string) bool {
	if value, exists := os.LookupEnv(env); exists {
		return strings.ToLower(value) == "true"
	}

	return strings.ToLower(fallback) == "true"
}

func getIntEnv(env string, fallback int) int {
	if value, exists := os.LookupEnv(env); exists {
		int_value, err := strconv.Atoi(value)
		if err == nil {
			return int_value
		}
	}

	return fallback
}

// getDurationEnv parses Go durations; "0" or "off" disable the setting.
func getDurationEnv(env, fallback string) (time.Duration, error) {
	value := getEnv(env, fallback)
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "off", "":
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", env, err)
	}
	return d, nil
}

// Fields renders the config for the startup log, with secrets masked.
func (cfg *Config) Fields() []zap.Field {
	reflectedValues := reflect.ValueOf(cfg).Elem()
	reflectedTypes := reflect.TypeOf(cfg).Elem()

	out := make([]zap.Field, 0, reflectedValues.NumField())
	for i := 0; i < reflectedValues.NumField(); i++ {
		name := reflectedTypes.Field(i).Name
		value := reflectedValues.Field(i).Interface()
		if strings.Contains(strings.ToLower(name), "secret") && value != "" {
			value = "****"
		}
		out = append(out, zap.Any(name, value))
	}

	return out
}
