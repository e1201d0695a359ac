// Package commands implements the tacacs-login cobra command tree:
// one TACACS+ exchange per invocation, dialed fresh against the
// configured server.
package commands

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	tacplus "github.com/tacplus/tacplus-go"
	"github.com/tacplus/tacplus-go/cmd/tacacs-login/config"
	"github.com/tacplus/tacplus-go/transport"
)

var (
	cfgPath string
	cfg     *config.Config
	log     zerolog.Logger

	userFlag      string
	portFlag      string
	remoteFlag    string
	privilegeFlag uint8
)

// rootCmd is the top-level tacacs-login command.
var rootCmd = &cobra.Command{
	Use:   "tacacs-login",
	Short: "Run a single TACACS+ exchange against a server",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded

		level, err := zerolog.ParseLevel(cfg.Log.Level)
		if err != nil {
			level = zerolog.InfoLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
		tacplus.SetDefaultLogger(log)

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file (optional)")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "username (required)")
	rootCmd.PersistentFlags().StringVar(&portFlag, "port", "tacacs-login", "port field sent in every request")
	rootCmd.PersistentFlags().StringVar(&remoteFlag, "remote-address", "0.0.0.0", "remote_address field sent in every request")
	rootCmd.PersistentFlags().Uint8Var(&privilegeFlag, "privilege", 0, "privilege level, 0-15")

	rootCmd.AddCommand(papCmd())
	rootCmd.AddCommand(chapCmd())
	rootCmd.AddCommand(asciiCmd())
	rootCmd.AddCommand(authorizeCmd())
	rootCmd.AddCommand(accountCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newSession returns a Session that dials cfg.Server on its first
// exchange, along with a closer the caller must run afterward.
func newSession(ctx context.Context) (*tacplus.Session, func(), error) {
	var factory transport.Factory
	if cfg.Server.TLS {
		factory = transport.DialTLS(cfg.Server.Addr, &tls.Config{})
	} else {
		factory = transport.DialTCP(cfg.Server.Addr)
	}

	var key []byte
	if cfg.Server.Secret != "" {
		key = []byte(cfg.Server.Secret)
	}

	sess, err := tacplus.NewSession(factory, key, tacplus.WithLogger(log))
	if err != nil {
		return nil, nil, fmt.Errorf("open session: %w", err)
	}
	return sess, func() { _ = sess.Close() }, nil
}

// sessionContext builds the identity triple shared by every subcommand
// from the persistent --user/--port/--remote-address/--privilege flags.
func sessionContext() (tacplus.SessionContext, error) {
	if userFlag == "" {
		return tacplus.SessionContext{}, errUserRequired
	}
	return tacplus.NewSessionContext(userFlag, portFlag, remoteFlag, privilegeFlag)
}
