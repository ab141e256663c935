package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrUnknownKey indicates the config file contains an unexpected/unknown
// key.
type ErrUnknownKey struct {
	Line int
	Key  string
}

// Error returns the error string for ErrUnknownKey types.
func (e ErrUnknownKey) Error() string {
	return "unknown config key"
}

// ErrMissingValue indicates that a value was not supplied with a given config
// key.
type ErrMissingValue struct {
	Line   int
	ForKey string
}

// Error returns the error string for ErrMissingValue instances.
func (e ErrMissingValue) Error() string {
	return "missing value for config key"
}

// ErrInvalidValue indicates a value that cannot be converted to the key's
// type.
type ErrInvalidValue struct {
	Line   int
	ForKey string
	Value  string
}

func (e ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value %q for config key %q", e.Value, e.ForKey)
}

// ErrRequired indicates a mandatory setting was left empty.
type ErrRequired struct {
	Key string
}

func (e ErrRequired) Error() string {
	return "missing required config key " + e.Key
}

// Config holds the program's configuration.
type Config struct {
	Token          string        `env:"TOKEN"`
	DBPath         string        `env:"DATABASE" envDefault:"dinklebot.sqlite"`
	Listen         string        `env:"LISTEN" envDefault:":8080"`
	WebhookURL     string        `env:"WEBHOOK_URL"`
	WebhookSecret  string        `env:"WEBHOOK_SECRET"`
	SearchCX       string        `env:"SEARCH_CX" envDefault:"009373417816394415455:i3e_omr58us"`
	SearchRate     float64       `env:"SEARCH_RATE" envDefault:"0.5"`
	Timezone       string        `env:"TIMEZONE" envDefault:"Local"`
	AMQPURL        string        `env:"AMQP_URL"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string        `env:"LOG_FORMAT" envDefault:"text"`
	MessageTimeout time.Duration `env:"MESSAGE_TIMEOUT" envDefault:"10s"`
}

// Default returns the settings used for keys a config file leaves out.
func Default() Config {
	return Config{
		DBPath:         "dinklebot.sqlite",
		Listen:         ":8080",
		SearchCX:       "009373417816394415455:i3e_omr58us",
		SearchRate:     0.5,
		Timezone:       "Local",
		LogLevel:       "info",
		LogFormat:      "text",
		MessageTimeout: 10 * time.Second,
	}
}

// Load extracts the config key, value pairs from the given reader.
//
// Lines starting with "#" are considered comments and are ignored.
func Load(r io.Reader) (Config, error) {
	config := Default()

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)

	var lineNumber int
	for ; scanner.Scan(); lineNumber++ {
		line := strings.TrimSpace(scanner.Text())

		// empty line or comment
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, val := line, ""
		if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
			key, val = line[:i], strings.TrimSpace(line[i:])
		}
		if val == "" {
			return Config{}, ErrMissingValue{Line: lineNumber, ForKey: key}
		}

		invalid := ErrInvalidValue{Line: lineNumber, ForKey: key, Value: val}

		switch key {
		case "token":
			config.Token = val
		case "database":
			config.DBPath = val
		case "listen":
			config.Listen = val
		case "webhook_url":
			config.WebhookURL = val
		case "webhook_secret":
			config.WebhookSecret = val
		case "search_cx":
			config.SearchCX = val
		case "search_rate":
			rate, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return Config{}, invalid
			}
			config.SearchRate = rate
		case "timezone":
			config.Timezone = val
		case "amqp_url":
			config.AMQPURL = val
		case "log_level":
			config.LogLevel = val
		case "log_format":
			config.LogFormat = val
		case "message_timeout":
			d, err := time.ParseDuration(val)
			if err != nil {
				return Config{}, invalid
			}
			config.MessageTimeout = d
		default:
			err := ErrUnknownKey{
				Key:  key,
				Line: lineNumber,
			}
			return Config{}, err
		}
	}

	return config, scanner.Err()
}

// LoadFromFile is a convenience function for reading a Config from a file.
func LoadFromFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return Load(f)
}

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "DINKLEBOT_"

// FromEnv reads the configuration from DINKLEBOT_* environment variables.
// Variables in a .env file in the working directory are loaded first without
// overriding ones already set.
func FromEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return env.ParseAsWithOptions[Config](env.Options{Prefix: EnvPrefix})
}

// Validate reports the first mandatory setting that is missing.
func (c Config) Validate() error {
	switch {
	case c.Token == "":
		return ErrRequired{Key: "token"}
	case c.WebhookSecret == "":
		return ErrRequired{Key: "webhook_secret"}
	case c.DBPath == "":
		return ErrRequired{Key: "database"}
	}
	return nil
}

// Location resolves the configured time zone.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
