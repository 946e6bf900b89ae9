// Package config loads typed configuration structs from environment variables.
//
// It is a thin layer over github.com/caarlos0/env/v11 with github.com/joho/godotenv
// support: the working directory's .env file is read once per process, and
// explicit files can be added per call with WithEnvFiles. Every component
// package (pg, redis, email, httpserver, billing) declares its own Config
// struct with `env` tags; cmd/fixology loads them with Load or MustLoad.
package config
