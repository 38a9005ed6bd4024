package config

import (
	"github.com/joeshaw/envdecode"
)

// Config holds the bot's process configuration, populated from the
// environment
type Config struct {
	// Addr is the address the chat gateway listens on
	Addr string `env:"HANABOT_ADDR,default=:8000"`

	// StateFile is where the session snapshot is written, and read back
	// from on startup
	StateFile string `env:"HANABOT_STATE,default=state.json"`
}

// Load reads configuration from the environment
func Load() (Config, error) {
	var c Config
	err := envdecode.Decode(&c)
	return c, err
}
