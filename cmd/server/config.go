package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/icco/pokejournal"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type options struct {
	Port           string   `long:"port" env:"PORT" default:"8080" description:"Port to listen on"`
	DatabaseURL    string   `long:"database-url" env:"DATABASE_URL" description:"Postgres connection string"`
	JWTSecret      string   `long:"jwt-secret" env:"JWT_SECRET" description:"Secret used to sign session tokens"`
	RedisURL       string   `long:"redis-url" env:"REDIS_URL" description:"Redis used to revoke sessions on logout; in-process when empty"`
	AllowedOrigins []string `long:"allowed-origins" env:"ALLOWED_ORIGINS" env-delim:"," default:"http://localhost:5173" default:"http://localhost:3000" description:"Origins allowed to make credentialed requests"`
	ScoringFile    string   `long:"scoring-file" env:"SCORING_FILE" description:"YAML or TOML file overriding matchup scoring"`
	Env            string   `long:"env" env:"NAT_ENV" default:"development" description:"Deployment environment"`
	SecureCookies  bool     `long:"secure-cookies" env:"SECURE_COOKIES" description:"Only send the session cookie over HTTPS"`
}

// loadDotEnv reads .env into the environment when one exists.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnw("could not load .env", zap.Error(err))
	}
}

func parseOptions(args []string) (*options, error) {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).ParseArgs(args); err != nil {
		return nil, err
	}

	if opts.DatabaseURL == "" {
		return nil, fmt.Errorf("database url is required (--database-url or DATABASE_URL)")
	}
	if opts.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required (--jwt-secret or JWT_SECRET)")
	}

	return &opts, nil
}

func (o *options) production() bool {
	return o.Env == "production"
}

func (o *options) scoring() (pokejournal.Scoring, error) {
	if o.ScoringFile == "" {
		return pokejournal.DefaultScoring(), nil
	}
	return pokejournal.LoadScoring(o.ScoringFile)
}
