package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
)

// ClientAdapter holds network settings used by the API client.
type ClientAdapter struct {
	// HTTPAddress is the base URL of the go-yamdb server.
	// Env: CLIENT_SERVER_URL
	HTTPAddress string `env:"SERVER_URL"`

	// RequestTimeout is the default timeout for outbound client requests.
	// Env: CLIENT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// ClientConfig is the top-level configuration of the command-line client.
type ClientConfig struct {
	// Adapter contains the server address and timeouts.
	Adapter ClientAdapter `envPrefix:"CLIENT_"`

	// Token is the bearer token attached to authenticated requests.
	// Env: CLIENT_TOKEN
	Token string `env:"CLIENT_TOKEN"`
}

// GetClientConfig assembles the client configuration from defaults, the
// environment (seeded from .env) and the global flags in args. The
// arguments left after the global flags are returned unchanged.
func GetClientConfig(name string, args []string) (*ClientConfig, []string, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("error loading .env: %w", err)
	}

	envCfg := &ClientConfig{}
	if err := parseEnv(envCfg); err != nil {
		return nil, nil, err
	}

	flagCfg, rest, err := ParseClientFlags(name, args)
	if err != nil {
		return nil, nil, err
	}

	cfg := defaultClientConfig()
	for _, src := range []*ClientConfig{envCfg, flagCfg} {
		if err = mergo.Merge(cfg, src, mergo.WithOverride); err != nil {
			return nil, nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return cfg, rest, cfg.validate()
}

// ParseClientFlags parses the global client flags.
//
// Flags:
//
//	-s server base URL
//	-t bearer token
//	-timeout request timeout (e.g., "15s")
func ParseClientFlags(name string, args []string) (*ClientConfig, []string, error) {
	var serverURL string
	var token string
	var timeout time.Duration

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&serverURL, "s", "", "Server base URL")
	fs.StringVar(&token, "t", "", "Bearer token")
	fs.DurationVar(&timeout, "timeout", 0, "Request timeout (e.g., 15s)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    serverURL,
			RequestTimeout: timeout,
		},
		Token: token,
	}, fs.Args(), nil
}

func defaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Adapter: ClientAdapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 15 * time.Second,
		},
	}
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	return nil
}
