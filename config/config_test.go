package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config == nil {
		t.Fatal("DefaultConfig() returned nil")
	}
	if config.Port != "3000" {
		t.Errorf("Expected default port 3000, got %q", config.Port)
	}
	if config.CORSOrigin != "*" {
		t.Errorf("Expected default CORS origin *, got %q", config.CORSOrigin)
	}
	if config.SQLitePath != "database.db" {
		t.Errorf("Expected default sqlite path database.db, got %q", config.SQLitePath)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	config := DefaultConfig()
	config.Port = "not-a-port"
	if err := config.Validate(); err == nil {
		t.Error("Expected error for non-numeric port")
	}

	config = DefaultConfig()
	config.Port = "0"
	if err := config.Validate(); err == nil {
		t.Error("Expected error for port 0")
	}

	config = DefaultConfig()
	config.DatabaseURL = ""
	config.SQLitePath = ""
	if err := config.Validate(); err == nil {
		t.Error("Expected error when no store is configured")
	}

	config = DefaultConfig()
	config.UploadDir = ""
	if err := config.Validate(); err == nil {
		t.Error("Expected error for empty upload dir")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "postgres://app:secret@db:5432/catalog")
	t.Setenv("CORS_ORIGIN", "https://shop.example.com")

	// Load from a directory without a config file
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to chdir: %v", err)
	}
	defer os.Chdir(cwd)

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if config.Port != "8080" {
		t.Errorf("Expected PORT override 8080, got %q", config.Port)
	}
	if config.DatabaseURL != "postgres://app:secret@db:5432/catalog" {
		t.Errorf("Expected DATABASE_URL override, got %q", config.DatabaseURL)
	}
	if config.CORSOrigin != "https://shop.example.com" {
		t.Errorf("Expected CORS_ORIGIN override, got %q", config.CORSOrigin)
	}
	// Untouched keys keep their defaults
	if config.UploadDir != "uploads" {
		t.Errorf("Expected default upload dir, got %q", config.UploadDir)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := "port: \"4000\"\ncors_origin: \"https://shop.example.com\"\nredis_addr: \"localhost:6379\"\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if config.Port != "4000" {
		t.Errorf("Expected port 4000 from file, got %q", config.Port)
	}
	if config.RedisAddr != "localhost:6379" {
		t.Errorf("Expected redis addr from file, got %q", config.RedisAddr)
	}
	if config.SQLitePath != "database.db" {
		t.Errorf("Expected sqlite default to survive, got %q", config.SQLitePath)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}
}
