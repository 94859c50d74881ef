/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Seednode/guesswho/games/hint"
	"github.com/Seednode/guesswho/games/roster"
)

type Config struct {
	bind           string
	hintOnMiss     bool
	hintTimeout    time.Duration
	openaiBaseURL  string
	openaiKey      string
	openaiModel    string
	port           int
	prefix         string
	profile        bool
	rosterFile     string
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool

	characters roster.Roster
	hints      hint.Generator
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.hintTimeout <= 0 {
		return fmt.Errorf("invalid hint timeout (must be positive): %s", c.hintTimeout)
	}
	if c.sessionTimeout < 0 || (c.sessionTimeout > 0 && c.sessionTimeout < minSessionTimeout) {
		return fmt.Errorf("invalid session timeout (must be 0 or at least %s): %s", minSessionTimeout, c.sessionTimeout)
	}

	if c.rosterFile == "" {
		c.characters = roster.Default()
	} else {
		r, err := roster.Load(c.rosterFile)
		if err != nil {
			return err
		}
		c.characters = r
	}
	if len(c.characters) == 0 {
		return errors.New("roster contains no characters")
	}

	gen, err := newHintGenerator(c)
	if err != nil {
		return err
	}
	c.hints = gen

	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GUESSWHO")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "guesswho",
		Short:         "A pass-the-phone guessing game over a roster of brainrot characters.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: GUESSWHO_BIND)")
	fs.BoolVar(&cfg.hintOnMiss, "hint-on-miss", false, "request a hint automatically after every wrong guess (env: GUESSWHO_HINT_ON_MISS)")
	fs.DurationVar(&cfg.hintTimeout, "hint-timeout", 15*time.Second, "time to wait for a generated hint (env: GUESSWHO_HINT_TIMEOUT)")
	fs.StringVar(&cfg.openaiBaseURL, "openai-base-url", "", "base URL of an OpenAI-compatible API (env: GUESSWHO_OPENAI_BASE_URL)")
	fs.StringVar(&cfg.openaiKey, "openai-key", "", "API key used to generate hints; offline hints are used when empty (env: GUESSWHO_OPENAI_KEY)")
	fs.StringVar(&cfg.openaiModel, "openai-model", "", "chat model used to generate hints (env: GUESSWHO_OPENAI_MODEL)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: GUESSWHO_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: GUESSWHO_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: GUESSWHO_PROFILE)")
	fs.StringVar(&cfg.rosterFile, "roster", "", "path to a YAML roster replacing the built-in characters (env: GUESSWHO_ROSTER)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle games are ended (env: GUESSWHO_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: GUESSWHO_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: GUESSWHO_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: GUESSWHO_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: GUESSWHO_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("guesswho v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
