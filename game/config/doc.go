// Package config loads arena configurations for the pong server.
//
// Arenas are YAML files in an arena directory, one per file, named after the
// file without its extension:
//
//	name: rally
//	description: Slower ball with a gentle speed-up
//	ball_speed: 4
//	speed_up: 1.05
//	tick_rate: 60
//	obstacles:
//	  - x: {min: 250, max: 300}
//	    y: {min: 200, max: 350}
//	  - x: {min: 500, max: 550}
//	    y: {min: 200, max: 350}
//
// Fields left out keep the classic values. The built-in "classic" arena is
// always available, even without a directory.
//
// Usage:
//
//	manager, err := config.NewManager("arenas", "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	arena, err := manager.LoadArena("rally")
//	arenas, err := manager.ListArenas()
//
// Loaded arenas are cached; RefreshCache drops the cache and reloads the
// default.
package config
