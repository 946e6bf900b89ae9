package main

import (
	"github.com/fixology/platform/pkg/billing"
	"github.com/fixology/platform/pkg/email"
	"github.com/fixology/platform/pkg/environment"
	"github.com/fixology/platform/pkg/httpserver"
	"github.com/fixology/platform/pkg/pg"
	"github.com/fixology/platform/pkg/redis"
)

type appConfig struct {
	Env      environment.Environment `env:"APP_ENV" envDefault:"development"`
	Name     string                  `env:"APP_NAME" envDefault:"Fixology"`
	BaseURL  string                  `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel string                  `env:"LOG_LEVEL"`

	// TrustedIPHeaders lists proxy headers carrying the caller address.
	TrustedIPHeaders []string `env:"HTTP_TRUSTED_IP_HEADERS" envSeparator:","`

	HTTP    httpserver.Config
	PG      pg.Config
	Redis   redis.Config
	Email   email.Config
	Billing billing.Config
}
