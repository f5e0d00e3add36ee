package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Home      string // root for stored characters, lorebooks, presets, memories
	Workspace string // agent workspace: skills/, bootstrap files
	AgentName string // {{char}} fallback when no character is active
	UserName  string // {{user}} macro value
	LogLevel  string // debug, info, warn, error
}

func Load() *Config {
	_ = godotenv.Load() // ignore error if no .env

	home := os.Getenv("LOREKEEPER_HOME")
	if home == "" {
		if dir, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(dir, ".lorekeeper")
		} else {
			home = ".lorekeeper"
		}
	}

	return &Config{
		Home:      home,
		Workspace: envOr("LOREKEEPER_WORKSPACE", "workspace"),
		AgentName: envOr("LOREKEEPER_AGENT_NAME", "Assistant"),
		UserName:  envOr("LOREKEEPER_USER_NAME", "User"),
		LogLevel:  envOr("LOREKEEPER_LOG_LEVEL", "info"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
