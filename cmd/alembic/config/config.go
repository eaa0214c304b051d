// Package configcmder provides the config command for managing persistent
// alembic configuration stored in the .alembic/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent alembic configuration.

Configuration is stored as config.toml in the .alembic/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  platform.base_url, platform.persona, platform.timeout_seconds,
  gemini.model, gemini.temperature,
  dashboard.listen, dashboard.research_timeout_seconds,
  analytics.output_dir, analytics.max_charts,
  store.sqlite_path,
  events.provider, events.brokers, events.topic

Use subcommands to get, set, or list configuration values:
  alembic config set <key> <value>    Set a configuration value
  alembic config get <key>            Get a configuration value
  alembic config list                 List all configuration values

Examples:
  alembic config set platform.persona maya
  alembic config set gemini.model gemini-2.0-flash
  alembic config get dashboard.listen
  alembic config list`

const configShortDesc string = "Manage persistent alembic configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
