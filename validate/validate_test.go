package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeArena(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write arena: %v", err)
	}
	return path
}

func TestValidateArena_ValidArena(t *testing.T) {
	path := writeArena(t, "classic.yaml", `name: classic
description: Two random obstacles, one per half
ball_speed: 5
speed_up: 1.1
tick_rate: 60
obstacles:
  - x: {min: 200, max: 300}
    y: {min: 50, max: 550}
  - x: {min: 500, max: 600}
    y: {min: 50, max: 550}
`)

	result := validateArena(path)
	if !result.Valid {
		t.Fatalf("Expected valid arena, but got errors: %v", result.Errors)
	}
	if result.File != "classic.yaml" {
		t.Errorf("Expected file name classic.yaml, got %s", result.File)
	}
	if !containsLine(result.Errors, "✓ Ball outruns paddle width after 15 hits") {
		t.Errorf("Expected tunneling summary, got %v", result.Errors)
	}
}

func TestValidateArena_NameDefaultsToFile(t *testing.T) {
	path := writeArena(t, "quiet.yaml", `ball_speed: 3
speed_up: 1
tick_rate: 30
obstacles:
  - x: {min: 200, max: 300}
    y: {min: 50, max: 550}
  - x: {min: 500, max: 600}
    y: {min: 50, max: 550}
`)

	result := validateArena(path)
	if !result.Valid {
		t.Fatalf("Expected valid arena, but got errors: %v", result.Errors)
	}
	if !containsLine(result.Errors, "✓ Name: quiet") {
		t.Errorf("Expected name from file, got %v", result.Errors)
	}
	if !containsLine(result.Errors, "✓ Ball never outruns paddle width") {
		t.Errorf("Expected no tunneling, got %v", result.Errors)
	}
}

func TestValidateArena_PartialArena(t *testing.T) {
	path := writeArena(t, "fast.yaml", "name: fast\nball_speed: 7\n")

	result := validateArena(path)
	if !result.Valid {
		t.Fatalf("Expected a partial arena the server can load to be valid, got errors: %v", result.Errors)
	}
	if !containsLine(result.Errors, "✓ Ball: speed 7.0, x1.10 per paddle hit") {
		t.Errorf("Expected classic speed-up to fill the gap, got %v", result.Errors)
	}
	if !containsLine(result.Errors, "✓ Tick rate: 60/s") {
		t.Errorf("Expected classic tick rate, got %v", result.Errors)
	}
}

func TestValidateArena_InvalidYAML(t *testing.T) {
	path := writeArena(t, "broken.yaml", "name: [unterminated\n")

	result := validateArena(path)
	if result.Valid {
		t.Error("Expected invalid result for malformed YAML")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Invalid YAML") {
		t.Errorf("Expected 'Invalid YAML' error, got %v", result.Errors)
	}
}

func TestValidateArena_UnknownField(t *testing.T) {
	path := writeArena(t, "typo.yaml", "name: typo\nball_sped: 5\n")

	result := validateArena(path)
	if result.Valid {
		t.Error("Expected unknown key to be rejected")
	}
}

func TestValidateArena_MissingFile(t *testing.T) {
	result := validateArena(filepath.Join(t.TempDir(), "missing.yaml"))
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}
	if len(result.Errors) == 0 || !strings.Contains(result.Errors[0], "Failed to read file") {
		t.Errorf("Expected 'Failed to read file' error, got %v", result.Errors)
	}
}

func TestValidateArena_Rules(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name: "name mismatch",
			file: "rally.yaml",
			content: `name: blitz
ball_speed: 5
speed_up: 1.1
tick_rate: 60
obstacles:
  - x: {min: 200, max: 300}
    y: {min: 50, max: 550}
  - x: {min: 500, max: 600}
    y: {min: 50, max: 550}
`,
			wantErr: `name "blitz" does not match file name "rally"`,
		},
		{
			name: "zero ball speed",
			file: "slow.yaml",
			content: `ball_speed: 0
speed_up: 1.1
tick_rate: 60
obstacles:
  - x: {min: 200, max: 300}
    y: {min: 50, max: 550}
  - x: {min: 500, max: 600}
    y: {min: 50, max: 550}
`,
			wantErr: "ball_speed must be positive",
		},
		{
			name: "one obstacle",
			file: "lonely.yaml",
			content: `ball_speed: 5
speed_up: 1.1
tick_rate: 60
obstacles:
  - x: {min: 200, max: 300}
    y: {min: 50, max: 550}
`,
			wantErr: "exactly 2 obstacles are required",
		},
		{
			name: "obstacle in paddle column",
			file: "crowded.yaml",
			content: `ball_speed: 5
speed_up: 1.1
tick_rate: 60
obstacles:
  - x: {min: 0, max: 300}
    y: {min: 50, max: 550}
  - x: {min: 500, max: 600}
    y: {min: 50, max: 550}
`,
			wantErr: "obstacle 1 x range [0,300] overlaps a paddle column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateArena(writeArena(t, tt.file, tt.content))
			if result.Valid {
				t.Fatal("Expected invalid arena")
			}
			found := false
			for _, e := range result.Errors {
				if strings.Contains(e, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, result.Errors)
			}
		})
	}
}

func TestValidateArena_ShippedArenas(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "arenas", "*.yaml"))
	if err != nil || len(files) == 0 {
		t.Skip("Skipping test - arenas directory not found")
	}

	for _, file := range files {
		if result := validateArena(file); !result.Valid {
			t.Errorf("%s: %v", result.File, result.Errors)
		}
	}
}

func TestHitsUntilTunneling(t *testing.T) {
	if got := hitsUntilTunneling(8, 1.2); got != 6 {
		t.Errorf("Expected 6 hits, got %d", got)
	}
	if got := hitsUntilTunneling(25, 1.1); got != 0 {
		t.Errorf("Expected 0 hits, got %d", got)
	}
	if got := hitsUntilTunneling(5, 1); got != -1 {
		t.Errorf("Expected -1, got %d", got)
	}
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if l == want {
			return true
		}
	}
	return false
}
