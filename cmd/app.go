// Package cmd implements the CLI application that drives the synchronizers
// and the portfolio analyzer.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gontzalm/ghostsync"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Commands lists the subcommands a main package registers.
var Commands = []subcommands.Command{
	&syncCmd{},
	&analyzeCmd{},
}

// as a CLI application with a short lived lifecycle, global flags are fine.

var configFile = flag.String("config", "config.toml", "Path to the TOML configuration file")
var envFile = flag.String("env", ".env", "Path to the env file holding the secrets")

// loadConfig reads the TOML configuration tree and the env secrets. A
// missing env file is fine when the secrets come from the environment
// itself.
func loadConfig() (*viper.Viper, error) {
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		return nil, ghostsync.Configf("cannot load env file %q: %v", *envFile, err)
	}

	v := viper.New()
	v.SetConfigFile(*configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, ghostsync.Configf("cannot read config file %q: %v", *configFile, err)
	}
	return v, nil
}

// secret reads a required environment secret.
func secret(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", ghostsync.Configf("missing environment secret %s", name)
	}
	return value, nil
}

// userSecret reads a required per-user environment secret, e.g.
// ALICE_GHOSTFOLIO_TOKEN.
func userSecret(user, name string) (string, error) {
	return secret(strings.ToUpper(user) + "_" + name)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
