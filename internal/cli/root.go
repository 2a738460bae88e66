// Package cli provides the sqlupload command-line interface: the same batch
// processor as the web UI, driven by flags instead of a session.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sqluploader/internal/core"
	"github.com/JonMunkholm/sqluploader/internal/logging"
)

// Version information (set at build time).
var Version = "0.1.0"

// app holds the state shared by all subcommands.
type app struct {
	conn     core.ConnectionConfig
	logLevel string
	connect  core.ConnectFunc
	logger   *slog.Logger
}

// NewRootCmd creates the root command wired to a real database.
func NewRootCmd() *cobra.Command {
	return newRootCmd(core.Connect)
}

func newRootCmd(connect core.ConnectFunc) *cobra.Command {
	a := &app{connect: connect}

	rootCmd := &cobra.Command{
		Use:   "sqlupload",
		Short: "Load CSV and Excel files into PostgreSQL tables",
		Long: `sqlupload loads tabular files into PostgreSQL. Each file becomes a table
named after the file; the table is created on first use and rows are appended.

Connection flags default to the standard PG* environment variables.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.logger = logging.New(cmd.ErrOrStderr(), a.logLevel, "text")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.conn.Host, "host", envOr("PGHOST", "localhost"), "database host")
	flags.IntVar(&a.conn.Port, "port", envInt("PGPORT", core.DefaultPort), "database port")
	flags.StringVarP(&a.conn.User, "user", "U", os.Getenv("PGUSER"), "database user")
	flags.StringVar(&a.conn.Password, "password", os.Getenv("PGPASSWORD"), "database password (prefer PGPASSWORD)")
	flags.StringVarP(&a.conn.Database, "dbname", "d", os.Getenv("PGDATABASE"), "database name")
	flags.StringVar(&a.conn.SSLMode, "sslmode", envOr("PGSSLMODE", "prefer"), "TLS mode")
	flags.DurationVar(&a.conn.ConnectTimeout, "connect-timeout", 10*time.Second, "connection timeout")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")

	_ = rootCmd.RegisterFlagCompletionFunc("sslmode", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"disable", "allow", "prefer", "require", "verify-ca", "verify-full"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newLoadCommand(a))

	return rootCmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}
