package cmd

import "github.com/caarlos0/env/v6"

// config holds the CLI defaults loaded from the environment before
// flags have a chance to override them, matching mna-nenuphar's own
// maincmd config pattern.
type config struct {
	Verbosity string `env:"LOXC_VERBOSITY" envDefault:"INFO"`
	Stats     bool   `env:"LOXC_STATS" envDefault:"false"`
}

func loadConfig() config {
	var cfg config
	// Environment variables are optional ambient defaults; a parse
	// failure just leaves the zero value (stdlib default) in place.
	_ = env.Parse(&cfg)
	return cfg
}
