// Package config loads the server's TOML configuration file and layers
// command-line flag overrides on top of it.
package config

import (
	"flag"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Bind         string `toml:"bind"`
	Port         int    `toml:"port"`
	MaxPlayers   int    `toml:"max_players"`
	MOTD         string `toml:"motd"`
	OnlineMode   bool   `toml:"online_mode"`
	ViewDistance int    `toml:"view_distance"`
	WorldDir     string `toml:"world_dir"`
}

// Default returns the configuration vanilla ships with when no file is
// present and no flags override it.
func Default() Config {
	return Config{
		Bind:         "0.0.0.0",
		Port:         25565,
		MaxPlayers:   20,
		MOTD:         "A Pickaxe Server",
		OnlineMode:   false,
		ViewDistance: 8,
		WorldDir:     "world",
	}
}

// Load reads a TOML config file at path, falling back to Default for any
// field the file doesn't set. A missing file is not an error: Default is
// returned as-is so the server can start with zero configuration.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if isNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// BindFlags registers CLI flags that override the loaded Config's fields,
// returning a function to call after flag.Parse to apply the overrides.
// Flags default to the current field values so an unset flag never
// clobbers what Load already decided.
func BindFlags(fs *flag.FlagSet, cfg *Config) func() {
	bind := fs.String("bind", cfg.Bind, "address to listen on")
	port := fs.Int("port", cfg.Port, "port to listen on")
	maxPlayers := fs.Int("max-players", cfg.MaxPlayers, "maximum concurrent players")
	motd := fs.String("motd", cfg.MOTD, "message of the day shown in the server list")
	onlineMode := fs.Bool("online-mode", cfg.OnlineMode, "verify players against Mojang (unsupported, always treated as false)")
	viewDistance := fs.Int("view-distance", cfg.ViewDistance, "chunk view distance")
	worldDir := fs.String("world-dir", cfg.WorldDir, "directory holding the world's region files")

	return func() {
		cfg.Bind = *bind
		cfg.Port = *port
		cfg.MaxPlayers = *maxPlayers
		cfg.MOTD = *motd
		cfg.OnlineMode = *onlineMode
		cfg.ViewDistance = *viewDistance
		cfg.WorldDir = *worldDir
	}
}
