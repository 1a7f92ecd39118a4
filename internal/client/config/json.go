package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/petsync/internal/flagx"
	"github.com/dmitrijs2005/petsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Durations use timex.Duration so they may be written as "500ms" or as
// integer nanoseconds.
type JsonConfig struct {
	APIBaseURL        string         `json:"api_base_url"`
	TokenURL          string         `json:"token_url"`
	ClientID          string         `json:"client_id"`
	ClientSecret      string         `json:"client_secret"`
	DatabasePath      string         `json:"database_path"`
	PageSize          int            `json:"page_size"`
	Postcode          string         `json:"postcode"`
	Distance          int            `json:"distance"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	RefreshTimeout    timex.Duration `json:"refresh_timeout"`
	SearchDebounce    timex.Duration `json:"search_debounce"`
	RequestsPerSecond float64        `json:"requests_per_second"`
	LogBackend        string         `json:"log_backend"`
	LogLevel          string         `json:"log_level"`
}

// parseJson overlays cfg with the non-zero values of the JSON file named by
// -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.TokenURL, jc.TokenURL)
	setString(&cfg.ClientID, jc.ClientID)
	setString(&cfg.ClientSecret, jc.ClientSecret)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.Postcode, jc.Postcode)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.PageSize != 0 {
		cfg.PageSize = jc.PageSize
	}
	if jc.Distance != 0 {
		cfg.Distance = jc.Distance
	}
	if jc.RequestsPerSecond != 0 {
		cfg.RequestsPerSecond = jc.RequestsPerSecond
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RefreshTimeout.Duration != 0 {
		cfg.RefreshTimeout = jc.RefreshTimeout.Duration
	}
	if jc.SearchDebounce.Duration != 0 {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
