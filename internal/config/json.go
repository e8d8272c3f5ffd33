package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with json tags and
// human-readable durations.
type StructuredJSONConfig struct {
	App struct {
		TokenSignKey        string   `json:"token_sign_key"`
		TokenIssuer         string   `json:"token_issuer"`
		TokenDuration       Duration `json:"token_duration"`
		ConfirmationCodeKey string   `json:"confirmation_code_key"`
		ConfirmationCodeTTL Duration `json:"confirmation_code_ttl"`
		PageSize            int      `json:"page_size"`
		Version             string   `json:"version"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN          string `json:"dsn"`
			MaxOpenConns int    `json:"max_open_conns"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		AllowedOrigins []string `json:"allowed_origins"`
	} `json:"server,omitempty"`

	Mailer struct {
		Backend string `json:"backend"`
		From    string `json:"from"`
		FileDir string `json:"file_dir"`
		AMQPURL string `json:"amqp_url"`
		Queue   string `json:"queue"`
	} `json:"mailer,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:        jsonCfg.App.TokenSignKey,
			TokenIssuer:         jsonCfg.App.TokenIssuer,
			TokenDuration:       time.Duration(jsonCfg.App.TokenDuration),
			ConfirmationCodeKey: jsonCfg.App.ConfirmationCodeKey,
			ConfirmationCodeTTL: time.Duration(jsonCfg.App.ConfirmationCodeTTL),
			PageSize:            jsonCfg.App.PageSize,
			Version:             jsonCfg.App.Version,
		},
		Storage: Storage{
			DB: DB{
				DSN:          jsonCfg.Storage.DB.DSN,
				MaxOpenConns: jsonCfg.Storage.DB.MaxOpenConns,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			AllowedOrigins: jsonCfg.Server.AllowedOrigins,
		},
		Mailer: Mailer{
			Backend: jsonCfg.Mailer.Backend,
			From:    jsonCfg.Mailer.From,
			FileDir: jsonCfg.Mailer.FileDir,
			AMQPURL: jsonCfg.Mailer.AMQPURL,
			Queue:   jsonCfg.Mailer.Queue,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", b)
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
