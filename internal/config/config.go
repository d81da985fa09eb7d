// Package config provides functionality for managing configuration options
// for the application using command-line flags and environment variables.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
)

// Options holds the configuration values for the application.
type Options struct {
	// BackendURL is the base URL of the hosted data service.
	BackendURL string

	// AnonKey is the public API key sent with every backend request.
	AnonKey string

	// StateFile is the path of the local durable state file
	// (cart contents, admin flag, cached session).
	StateFile string

	// AdminPassword is the shared secret gating the admin area.
	AdminPassword string

	// WhatsAppNumber is the phone number orders and bookings are
	// handed off to.
	WhatsAppNumber string

	// Addr defines the devserver's listening address (ip:port).
	Addr string

	// DatabaseDSN holds the devserver's database connection string.
	DatabaseDSN string

	// JWTSecret signs the devserver's access tokens.
	JWTSecret string

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.BackendURL, "backend", "http://localhost:8080", "data service base URL")
	flag.StringVar(&options.AnonKey, "anon-key", "", "data service anon API key")
	flag.StringVar(&options.StateFile, "state", "dtxstate.json", "path to local state file")
	flag.StringVar(&options.AdminPassword, "admin-password", "Dammy@$$2002$$", "admin area shared secret")
	flag.StringVar(&options.WhatsAppNumber, "whatsapp", "2348172452411", "WhatsApp handoff number")
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run devserver on ip:port")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.JWTSecret, "jwt-secret", "", "devserver token signing secret")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if v := os.Getenv("BACKEND_URL"); v != "" {
		options.BackendURL = v
	}
	if v := os.Getenv("BACKEND_ANON_KEY"); v != "" {
		options.AnonKey = v
	}
	if v := os.Getenv("STATE_FILE"); v != "" {
		options.StateFile = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		options.AdminPassword = v
	}
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		options.Addr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		options.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		options.JWTSecret = v
	}

	return options
}
