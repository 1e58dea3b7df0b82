package config

import "testing"

func TestExpandEnvUsesEnvironmentValue(t *testing.T) {
	t.Setenv("VELOURS_TEST_HOST", "db.internal")

	got := expandEnv("host: ${VELOURS_TEST_HOST:localhost}")
	if got != "host: db.internal" {
		t.Errorf("expandEnv = %q, want %q", got, "host: db.internal")
	}
}

func TestExpandEnvFallsBackToDefault(t *testing.T) {
	got := expandEnv("port: ${VELOURS_TEST_UNSET_PORT:5432}")
	if got != "port: 5432" {
		t.Errorf("expandEnv = %q, want %q", got, "port: 5432")
	}
}

func TestExpandEnvEmptyDefault(t *testing.T) {
	got := expandEnv("api_key: ${VELOURS_TEST_UNSET_KEY:}")
	if got != "api_key: " {
		t.Errorf("expandEnv = %q, want %q", got, "api_key: ")
	}
}

func TestExpandEnvWithoutDefaultKeepsPlaceholder(t *testing.T) {
	got := expandEnv("value: ${VELOURS_TEST_UNSET_NO_DEFAULT}")
	if got != "value: ${VELOURS_TEST_UNSET_NO_DEFAULT}" {
		t.Errorf("expandEnv = %q, placeholder should stay untouched", got)
	}
}

func TestExpandEnvMultiplePlaceholders(t *testing.T) {
	t.Setenv("VELOURS_TEST_USER", "app")

	got := expandEnv("dsn: ${VELOURS_TEST_USER:postgres}@${VELOURS_TEST_UNSET_DB:velours_story}")
	if got != "dsn: app@velours_story" {
		t.Errorf("expandEnv = %q, want %q", got, "dsn: app@velours_story")
	}
}
