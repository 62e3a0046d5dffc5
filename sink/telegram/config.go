package telegram

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/trickstertwo/xnotify"
	"github.com/trickstertwo/xnotify/sink"
)

const (
	DefaultAPIURL  = "https://api.telegram.org"
	DefaultTimeout = 10 * time.Second
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBotToken   = "XNOTIFY_TELEGRAM_BOT_TOKEN"
	EnvChatID     = "XNOTIFY_TELEGRAM_CHAT_ID"
	EnvUsersToTag = "XNOTIFY_TELEGRAM_USERS_TO_TAG"
	EnvCodebase   = "XNOTIFY_CODEBASE"
	EnvLevels     = "XNOTIFY_LEVELS"
	EnvOnFailure  = "XNOTIFY_ON_FAILURE"
)

var (
	ErrNoToken    = errors.New("xnotify/telegram: bot token is empty")
	ErrNoChatID   = errors.New("xnotify/telegram: chat id is empty")
	ErrNoCodebase = errors.New("xnotify/telegram: codebase name is empty")
)

// Config is the dispatch context of a Telegram Layer. It is read-only once
// the Notifier is built.
type Config struct {
	CodebaseName string             `yaml:"codebase_name"`
	UsersToTag   []string           `yaml:"users_to_tag"`
	BotToken     string             `yaml:"bot_token"`
	ChatID       string             `yaml:"chat_id"`
	APIURL       string             `yaml:"api_url"`    // default DefaultAPIURL
	Timeout      time.Duration      `yaml:"timeout"`    // default DefaultTimeout
	Levels       []xnotify.Level    `yaml:"levels"`     // default ERROR and FATAL
	OnFailure    sink.FailurePolicy `yaml:"on_failure"` // default panic
}

// Validate reports the first missing required setting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.BotToken) == "":
		return ErrNoToken
	case strings.TrimSpace(c.ChatID) == "":
		return ErrNoChatID
	case strings.TrimSpace(c.CodebaseName) == "":
		return ErrNoCodebase
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if len(c.Levels) == 0 {
		c.Levels = xnotify.Levels(xnotify.LevelError)
	}
	if c.OnFailure == 0 {
		c.OnFailure = sink.FailPanic
	}
	return c
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
//
//	codebase_name: billing
//	bot_token: "123:abc"
//	chat_id: "-100200300"
//	users_to_tag: [alice, "@bob"]
//	levels: [error, fatal]
//	timeout: 5s
//	on_failure: log
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("xnotify/telegram: open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("xnotify/telegram: decode %s: %w", path, err)
	}
	return cfg, nil
}

// ConfigFromEnv builds a Config from XNOTIFY_* environment variables.
// Unset variables leave the zero value; malformed levels or policies are errors.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		BotToken:     os.Getenv(EnvBotToken),
		ChatID:       os.Getenv(EnvChatID),
		CodebaseName: os.Getenv(EnvCodebase),
	}
	if v := os.Getenv(EnvUsersToTag); v != "" {
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.UsersToTag = append(cfg.UsersToTag, u)
			}
		}
	}
	if v := os.Getenv(EnvLevels); v != "" {
		lv, err := xnotify.ParseLevels(v)
		if err != nil {
			return Config{}, fmt.Errorf("xnotify/telegram: %s: %w", EnvLevels, err)
		}
		cfg.Levels = lv
	}
	if v := os.Getenv(EnvOnFailure); v != "" {
		p, err := sink.ParseFailurePolicy(v)
		if err != nil {
			return Config{}, fmt.Errorf("xnotify/telegram: %s: %w", EnvOnFailure, err)
		}
		cfg.OnFailure = p
	}
	return cfg, nil
}
