// Package config reads command settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Bynder holds the credentials shared by every command.
type Bynder struct {
	Domain       string `env:"BYNDER_DOMAIN,required,notEmpty"`
	ClientID     string `env:"CLIENT_ID,required,notEmpty"`
	ClientSecret string `env:"CLIENT_SECRET,required,notEmpty"`
}

type Logging struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// Report describes where a skucheck export is copied to. An empty bucket
// disables the upload.
type Report struct {
	Bucket string `env:"REPORT_S3_BUCKET"`
	Key    string `env:"REPORT_S3_KEY"`
	Region string `env:"AWS_REGION"`
}

type SKUCheck struct {
	Bynder
	Logging
	Report
	SKUMetapropertyID string `env:"SKU_METAPROPERTY_ID,required,notEmpty"`
	FeedURL           string `env:"FEED_URL" envDefault:"https://caiacosmetics.com/agent/Google_SE_products_sa6Jg8T_all.xml?hej=hej"`
}

type UpdateMetadata struct {
	Bynder
	Logging
	ProductMetapropertyID string `env:"PRODUCT_METAPROPERTY_ID" envDefault:"752A1FE6-4EE4-41E0-9CB0D32648A20847"`
	ShadeMetapropertyID   string `env:"SHADE_METAPROPERTY_ID" envDefault:"E8F2E838-E798-4B5C-889CEC3ED0440C1F"`
	SKUMetapropertyID     string `env:"SKU_METAPROPERTY_ID" envDefault:"C15CCF07-305D-4441-BC71D5A51B4BF48F"`
}

// Load parses the process environment into T. A non-nil environ replaces the
// process environment, which tests use.
func Load[T any](environ map[string]string) (T, error) {
	var opts env.Options
	if environ != nil {
		opts.Environment = environ
	}
	cfg, err := env.ParseAsWithOptions[T](opts)
	if err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
