package config

import (
	"os"
	"strings"
)

type Config struct {
	HTTPAddr string

	DBDriver string
	DBDSN    string

	// Single allowed frontend origin for CORS.
	FrontendOrigin string

	// HMAC secret for bearer tokens; tokens are only issued/enforced
	// when EnableTokenAuth is set.
	AuthSecret      string
	EnableTokenAuth bool

	// Policy knobs preserved from the original deployment. Repeat
	// submissions append duplicate ledger rows when allowed; password
	// reset verifies the old password only when required.
	AllowRepeatSubmissions    bool
	RequireOldPasswordOnReset bool

	// Subject-to-test mapping, e.g. "python:1,2;java:3,4;cpp:5,6".
	SubjectTests string
}

func FromEnv() Config {
	return Config{
		HTTPAddr:                  envOr("HTTP_ADDR", ":5001"),
		DBDriver:                  envOr("DB_DRIVER", "sqlite"),
		DBDSN:                     envOr("DB_DSN", ""),
		FrontendOrigin:            envOr("FRONTEND_ORIGIN", "http://localhost:5173"),
		AuthSecret:                envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		EnableTokenAuth:           envBool("AUTH_TOKENS", false),
		AllowRepeatSubmissions:    envBool("ALLOW_REPEAT_SUBMISSIONS", true),
		RequireOldPasswordOnReset: envBool("REQUIRE_OLD_PASSWORD_ON_RESET", false),
		SubjectTests:              envOr("SUBJECT_TESTS", "python:1,2;java:3,4;cpp:5,6"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch strings.ToLower(os.Getenv(k)) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	default:
		return def
	}
}
