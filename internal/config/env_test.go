package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTypedGetters(t *testing.T) {
	t.Setenv("STARDRIFT_TEST_FLOAT", "0.15")
	t.Setenv("STARDRIFT_TEST_INT", "42")
	t.Setenv("STARDRIFT_TEST_BOOL", "true")
	t.Setenv("STARDRIFT_TEST_BAD", "nope")

	if got := GetFloat("STARDRIFT_TEST_FLOAT", 1); got != 0.15 {
		t.Fatalf("GetFloat = %v, want 0.15", got)
	}
	if got := GetInt("STARDRIFT_TEST_INT", 1); got != 42 {
		t.Fatalf("GetInt = %v, want 42", got)
	}
	if got := GetBool("STARDRIFT_TEST_BOOL", false); !got {
		t.Fatal("GetBool = false, want true")
	}
	if got := GetFloat("STARDRIFT_TEST_BAD", 3.5); got != 3.5 {
		t.Fatalf("malformed GetFloat = %v, want fallback 3.5", got)
	}
	if got := GetInt("STARDRIFT_TEST_UNSET", 9); got != 9 {
		t.Fatalf("unset GetInt = %v, want fallback 9", got)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("STARDRIFT_FROM_FILE=hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STARDRIFT_FROM_FILE", "")
	os.Unsetenv("STARDRIFT_FROM_FILE")

	if err := Load(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := GetEnv("STARDRIFT_FROM_FILE", "fallback"); got != "hello" {
		t.Fatalf("GetEnv after Load = %q, want hello", got)
	}
}
