// Package config provides configuration loading for Surfbot using TOML,
// with credentials taken from the environment.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Bot settings control the command surface.
type Bot struct {
	CommandMarker string `toml:"commandMarker"` // prefix that marks a command, e.g. "!"
}

// Search provider settings
type Search struct {
	Provider    string `toml:"provider"`    // "serper" or "duckduckgo"
	ResultLimit int    `toml:"resultLimit"` // organic results kept per search
}

// Browse settings bound page views.
type Browse struct {
	SummaryLength int `toml:"summaryLength"` // characters shown per view / "more" chunk
	LinkLimit     int `toml:"linkLimit"`     // links stored per page
	LinkDisplay   int `toml:"linkDisplay"`   // links shown in a page view
}

// Fetcher settings for HTTP fetching.
type Fetcher struct {
	UserAgent       string `toml:"userAgent"`
	TimeoutSeconds  int    `toml:"timeoutSeconds"`
	ChromePath      string `toml:"chromePath"`
	BrowserFallback bool   `toml:"browserFallback"` // try headless Chrome when blocked
}

// Session settings for the in-memory session store.
type Session struct {
	TTLMinutes int `toml:"ttlMinutes"` // idle minutes before a session is evicted
}

// Transport settings for the webhook listener.
type Transport struct {
	Addr string `toml:"addr"`
}

// LLM settings select the conversational generator.
type LLM struct {
	Provider string `toml:"provider"` // registry key, e.g. "openai"
	Model    string `toml:"model"`
}

// Credentials are read from the environment, never from the config file.
type Credentials struct {
	SerperKey string
	OpenAIKey string
}

// Config is the main configuration struct.
type Config struct {
	Bot       Bot       `toml:"bot"`
	Search    Search    `toml:"search"`
	Browse    Browse    `toml:"browse"`
	Fetcher   Fetcher   `toml:"fetcher"`
	Session   Session   `toml:"session"`
	Transport Transport `toml:"transport"`
	LLM       LLM       `toml:"llm"`

	Creds Credentials `toml:"-"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Bot: Bot{
			CommandMarker: "!",
		},
		Search: Search{
			Provider:    "serper",
			ResultLimit: 5,
		},
		Browse: Browse{
			SummaryLength: 1500,
			LinkLimit:     15,
			LinkDisplay:   10,
		},
		Fetcher: Fetcher{
			UserAgent:      "Surfbot/1.0 (Chat Browser)",
			TimeoutSeconds: 30,
		},
		Session: Session{
			TTLMinutes: 60,
		},
		Transport: Transport{
			Addr: ":8080",
		},
		LLM: LLM{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
	}
}

// Load loads configuration, layering the file at path on top of defaults.
// A missing file is not an error; defaults are used. Credentials come from
// the environment (a .env file is honoured when present).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			var user Config
			if _, err := toml.DecodeFile(path, &user); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
			merge(cfg, &user)
		}
	}

	// .env is optional; real environment wins either way.
	_ = godotenv.Load()
	cfg.Creds = Credentials{
		SerperKey: os.Getenv("SERPER_API_KEY"),
		OpenAIKey: os.Getenv("OPENAI_API_KEY"),
	}

	return cfg, nil
}

// merge layers user config on top of defaults.
// Only non-zero values from user config override defaults.
func merge(defaults, user *Config) {
	if user.Bot.CommandMarker != "" {
		defaults.Bot.CommandMarker = user.Bot.CommandMarker
	}
	if user.Search.Provider != "" {
		defaults.Search.Provider = user.Search.Provider
	}
	if user.Search.ResultLimit != 0 {
		defaults.Search.ResultLimit = user.Search.ResultLimit
	}
	if user.Browse.SummaryLength != 0 {
		defaults.Browse.SummaryLength = user.Browse.SummaryLength
	}
	if user.Browse.LinkLimit != 0 {
		defaults.Browse.LinkLimit = user.Browse.LinkLimit
	}
	if user.Browse.LinkDisplay != 0 {
		defaults.Browse.LinkDisplay = user.Browse.LinkDisplay
	}
	if user.Fetcher.UserAgent != "" {
		defaults.Fetcher.UserAgent = user.Fetcher.UserAgent
	}
	if user.Fetcher.TimeoutSeconds != 0 {
		defaults.Fetcher.TimeoutSeconds = user.Fetcher.TimeoutSeconds
	}
	if user.Fetcher.ChromePath != "" {
		defaults.Fetcher.ChromePath = user.Fetcher.ChromePath
	}
	if user.Fetcher.BrowserFallback {
		defaults.Fetcher.BrowserFallback = true
	}
	if user.Session.TTLMinutes != 0 {
		defaults.Session.TTLMinutes = user.Session.TTLMinutes
	}
	if user.Transport.Addr != "" {
		defaults.Transport.Addr = user.Transport.Addr
	}
	if user.LLM.Provider != "" {
		defaults.LLM.Provider = user.LLM.Provider
	}
	if user.LLM.Model != "" {
		defaults.LLM.Model = user.LLM.Model
	}
}
