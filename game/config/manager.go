package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/wricardo/multiplayer-pong/game/engine"
	"github.com/wricardo/multiplayer-pong/game/service"
	"gopkg.in/yaml.v3"
)

var (
	ErrArenaNotFound = errors.New("arena not found")
	ErrInvalidArena  = engine.ErrInvalidArena
)

const arenaExt = ".yaml"

// Manager handles arena loading and caching
type Manager struct {
	arenaDir     string
	defaultArena *engine.Arena
	arenas       map[string]*engine.Arena
	mu           sync.RWMutex
}

// NewManager creates a new arena manager reading *.yaml files from arenaDir.
// An empty arenaDir serves only the built-in classic arena. defaultName picks
// the arena new games start with; when empty, "classic" is used.
func NewManager(arenaDir, defaultName string) (*Manager, error) {
	if arenaDir != "" {
		if _, err := os.Stat(arenaDir); os.IsNotExist(err) {
			return nil, fmt.Errorf("arena directory does not exist: %s", arenaDir)
		}
	}

	m := &Manager{
		arenaDir: arenaDir,
		arenas:   make(map[string]*engine.Arena),
	}

	if defaultName == "" {
		defaultName = engine.DefaultArena().Name
	}
	if err := m.SetDefault(defaultName); err != nil {
		return nil, fmt.Errorf("failed to load default arena: %w", err)
	}

	return m, nil
}

// LoadArena loads an arena by name
func (m *Manager) LoadArena(name string) (*engine.Arena, error) {
	m.mu.RLock()
	if arena, exists := m.arenas[name]; exists {
		m.mu.RUnlock()
		return arena, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if arena, exists := m.arenas[name]; exists {
		return arena, nil
	}

	arena, err := m.readArena(name)
	if errors.Is(err, ErrArenaNotFound) && name == engine.DefaultArena().Name {
		arena, err = engine.DefaultArena(), nil
	}
	if err != nil {
		return nil, err
	}

	m.arenas[name] = arena
	return arena, nil
}

func (m *Manager) readArena(name string) (*engine.Arena, error) {
	if m.arenaDir == "" || strings.ContainsAny(name, `/\`) {
		return nil, ErrArenaNotFound
	}

	data, err := os.ReadFile(filepath.Join(m.arenaDir, strings.TrimSuffix(name, arenaExt)+arenaExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrArenaNotFound
		}
		return nil, fmt.Errorf("failed to read arena file: %w", err)
	}

	arena, err := DecodeArena(strings.TrimSuffix(name, arenaExt), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidArena, name, err)
	}

	if err := engine.ValidateArena(arena); err != nil {
		return nil, err
	}

	return arena, nil
}

// DecodeArena parses an arena file. Fields the file leaves out keep the
// classic values, an empty name becomes name, and unknown keys are rejected.
// The result is not validated.
func DecodeArena(name string, data []byte) (*engine.Arena, error) {
	arena := engine.DefaultArena()
	arena.Name, arena.Description = "", ""

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(arena); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse arena: %w", err)
	}
	if arena.Name == "" {
		arena.Name = name
	}

	return arena, nil
}

// ListArenas returns information about all loadable arenas, sorted by name.
// The built-in classic arena is always listed.
func (m *Manager) ListArenas() ([]*service.ArenaInfo, error) {
	names := map[string]bool{engine.DefaultArena().Name: true}

	if m.arenaDir != "" {
		entries, err := os.ReadDir(m.arenaDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read arena directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), arenaExt) {
				continue
			}
			names[strings.TrimSuffix(entry.Name(), arenaExt)] = true
		}
	}

	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	arenas := make([]*service.ArenaInfo, 0, len(sorted))
	for _, name := range sorted {
		arena, err := m.LoadArena(name)
		if err != nil {
			log.Warn().Err(err).Str("arena", name).Msg("skipping invalid arena")
			continue
		}
		arenas = append(arenas, &service.ArenaInfo{
			Name:        arena.Name,
			Description: arena.Description,
			BallSpeed:   arena.BallSpeed,
			TickRate:    arena.TickRate,
		})
	}

	return arenas, nil
}

// GetDefault returns the arena new games start with
func (m *Manager) GetDefault() *engine.Arena {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultArena
}

// SetDefault sets the default arena by name
func (m *Manager) SetDefault(name string) error {
	arena, err := m.LoadArena(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultArena = arena
	return nil
}

// RefreshCache drops cached arenas and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	name := ""
	if m.defaultArena != nil {
		name = m.defaultArena.Name
	}
	m.arenas = make(map[string]*engine.Arena)
	m.mu.Unlock()

	if name == "" {
		name = engine.DefaultArena().Name
	}
	return m.SetDefault(name)
}
