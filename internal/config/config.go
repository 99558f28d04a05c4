// Package config provides runtime configuration for the catalog export.
package config

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	DefaultAPIURL    = "https://api.metro-cc.ru/products-api/graph"
	DefaultBaseURL   = "https://online.metro-cc.ru"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
	DefaultAccept    = "application/json, text/plain, */*"
)

// Config holds everything a run needs. Zero values are never used
// directly: Load fills in the defaults.
type Config struct {
	APIURL         string            `validate:"required,url"`
	BaseURL        string            `validate:"required,url"`
	CategorySlug   string            `validate:"required"`
	StoreID        int               `validate:"min=0"`
	From           int               `validate:"min=0"`
	QueryFile      string            `validate:"required"`
	OutputFile     string            `validate:"required"`
	Headers        map[string]string `validate:"required"`
	RequestTimeout time.Duration     `validate:"min=0"`
	DBPath         string
	LogLevel       string `validate:"oneof=debug info warn warning error"`
	HTTPAddr       string `validate:"required"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("category_slug", "chay")
	v.SetDefault("store_id", 10)
	v.SetDefault("from", 0)
	v.SetDefault("query_file", "graphql_query.json")
	v.SetDefault("output_file", "result.csv")
	v.SetDefault("accept", DefaultAccept)
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("request_timeout", "0s")
	v.SetDefault("db_path", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("http_addr", ":8080")
}

// Load collects configuration from defaults, an optional config file
// (CATALOG_CONFIG) and CATALOG_* environment variables, in that order.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", file)
		}
	}

	cfg := Config{
		APIURL:       v.GetString("api_url"),
		BaseURL:      strings.TrimRight(v.GetString("base_url"), "/"),
		CategorySlug: v.GetString("category_slug"),
		StoreID:      v.GetInt("store_id"),
		From:         v.GetInt("from"),
		QueryFile:    v.GetString("query_file"),
		OutputFile:   v.GetString("output_file"),
		Headers: map[string]string{
			"accept":       v.GetString("accept"),
			"content-type": "application/json",
			"user-agent":   v.GetString("user_agent"),
		},
		RequestTimeout: v.GetDuration("request_timeout"),
		DBPath:         v.GetString("db_path"),
		LogLevel:       strings.ToLower(v.GetString("log_level")),
		HTTPAddr:       v.GetString("http_addr"),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags of cfg.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}
