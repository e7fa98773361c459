package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/image-classifier/internal/settings"
)

var settingsCommand = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the user preferences",
}

var settingsShowCommand = &cobra.Command{
	Use:   "show [key]",
	Short: "Show every preference, or one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsShow,
}

var settingsSetCommand = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one preference",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCommand.AddCommand(settingsShowCommand, settingsSetCommand)
	rootCmd.AddCommand(settingsCommand)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		v, err := settings.Get(a.store, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), v)
		return nil
	}

	values := make(map[string]string, len(settings.Keys()))
	for _, key := range settings.Keys() {
		v, err := settings.Get(a.store, key)
		if err != nil {
			return err
		}
		values[key] = v
	}
	a.printer.PrintKeyValues("PREFERENCES", settings.Keys(), values)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := settings.Set(a.store, args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Preferencias guardadas correctamente")
	return nil
}
