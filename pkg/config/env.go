package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variables read by the admin CLI for flag defaults. They sit
// outside App because they choose how configuration is loaded.
const (
	EnvFileVar     = "DONATION_ENV_FILE"
	FailOnDriftVar = "DONATION_FAIL_ON_DRIFT"
	MigrateStepVar = "DONATION_MIGRATE_STEPS"
)

// GetEnv returns the trimmed value of key, or def when it is unset or blank.
func GetEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return def
}

// GetEnvAsInt returns key parsed as an int, or def when it is unset or not a number.
func GetEnvAsInt(key string, def int) int {
	n, err := strconv.Atoi(GetEnv(key, ""))
	if err != nil {
		return def
	}
	return n
}

// GetEnvAsBool returns key parsed with strconv.ParseBool, or def when it is
// unset or unparsable.
func GetEnvAsBool(key string, def bool) bool {
	b, err := strconv.ParseBool(GetEnv(key, ""))
	if err != nil {
		return def
	}
	return b
}
