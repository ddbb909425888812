package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/alg/internal/settings"
)

func newSettingsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the preferences of the sessions",
	}
	command.AddCommand(
		newSettingsListCommand(),
		newSettingsGetCommand(),
		newSettingsSetCommand(),
	)
	return command
}

func newSettingsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := loadSettings()
			if err != nil {
				return err
			}
			for _, key := range settings.Keys() {
				value, err := values.String(key)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", key, value)
			}
			return nil
		},
	}
}

func newSettingsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := loadSettings()
			if err != nil {
				return err
			}
			value, err := values.String(args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newSettingsSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting. Lists such as selected_categories are comma separated",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := loadSettings()
			if err != nil {
				return err
			}
			if err := values.SetString(args[0], args[1]); err != nil {
				return fmt.Errorf("settings.SetString() > %w", err)
			}
			return nil
		},
	}
}

func loadSettings() (*settings.Settings, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	_, values, err := openSettings(cfg)
	return values, err
}
