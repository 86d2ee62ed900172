package cli

import (
	"fmt"
	"io"

	"pcns-backend/internal/config"
	"pcns-backend/internal/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type VersionInfo struct {
	Version string
	Commit  string
}

func NewRootCommand(info VersionInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pcns",
		Short:         "Permitting connected navigator service",
		Long:          "Intake backend for housing and electrification projects, enquiries, notes and permits.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("database-driver", "", "database driver (postgres, sqlite)")
	cmd.PersistentFlags().String("database-url", "", "database DSN")

	viper.BindPFlag("LOG_LEVEL", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("DATABASE_DRIVER", cmd.PersistentFlags().Lookup("database-driver"))
	viper.BindPFlag("DATABASE_URL", cmd.PersistentFlags().Lookup("database-url"))

	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	return cmd
}

// setup loads configuration and configures logging. The returned closer flushes the
// log file, when one is configured.
func setup() (*config.Config, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, logger.Setup(cfg), nil
}
