// Command validate checks the arena YAML files the server loads. By default it
// reads ./arenas; pass another directory as the only argument. It checks:
//   - YAML structure, rejecting unknown keys; omitted fields keep the classic values
//   - Ball speed, speed-up and tick rate bounds
//   - Exactly two obstacles whose spawn ranges fit the field
//   - Obstacles spawning clear of both paddle columns
//   - The name field matching the file name the server looks it up by
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/multiplayer-pong/game/config"
	"github.com/wricardo/multiplayer-pong/game/engine"
)

type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func validateArena(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	// Decoded exactly as the server loads it.
	fileName := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	arena, err := config.DecodeArena(fileName, data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid YAML: %v", errors.Unwrap(err)))
		return result
	}

	if arena.Name != fileName {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("name %q does not match file name %q", arena.Name, fileName))
	}

	if err := engine.ValidateArena(arena); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, strings.TrimPrefix(err.Error(), engine.ErrInvalidArena.Error()+": "))
		return result
	}

	for i, o := range arena.Obstacles {
		if o.X.Min < engine.PaddleWidth || o.X.Max+engine.ObstacleSize > engine.GameWidth-engine.PaddleWidth {
			result.Valid = false
			result.Errors = append(result.Errors, fmt.Sprintf("obstacle %d x range [%d,%d] overlaps a paddle column", i+1, o.X.Min, o.X.Max))
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", arena.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Ball: speed %.1f, x%.2f per paddle hit", arena.BallSpeed, arena.SpeedUp))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Tick rate: %d/s", arena.TickRate))
		if hits := hitsUntilTunneling(arena.BallSpeed, arena.SpeedUp); hits >= 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Ball outruns paddle width after %d hits", hits))
		} else {
			result.Errors = append(result.Errors, "✓ Ball never outruns paddle width")
		}
	}

	return result
}

// hitsUntilTunneling returns how many paddle hits it takes for the ball's
// horizontal step to exceed the paddle width, or -1 if it never does.
func hitsUntilTunneling(speed, speedUp float64) int {
	const limit = 1000
	for hits := 0; hits < limit; hits++ {
		if speed > engine.PaddleWidth {
			return hits
		}
		if speedUp <= 1 {
			return -1
		}
		speed *= speedUp
	}
	return -1
}

func main() {
	arenaDir := "arenas"
	if len(os.Args) > 1 {
		arenaDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(arenaDir, "*.yaml"))
	if err != nil {
		fmt.Printf("Error finding arena files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No arena files found in %s\n", arenaDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateArena(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All arenas are valid!")
	} else {
		fmt.Println("❌ Some arenas have errors")
		os.Exit(1)
	}
}
