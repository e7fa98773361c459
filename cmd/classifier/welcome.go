package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/image-classifier/internal/upload"
)

var welcomeCommand = &cobra.Command{
	Use:   "welcome",
	Short: "Show or dismiss the first-run welcome",
}

var welcomeShowCommand = &cobra.Command{
	Use:   "show",
	Short: "Print the welcome unless it was dismissed",
	RunE:  runWelcomeShow,
}

var welcomeDismissCommand = &cobra.Command{
	Use:   "dismiss",
	Short: "Stop showing the welcome",
	RunE:  runWelcomeDismiss,
}

func init() {
	welcomeCommand.AddCommand(welcomeShowCommand, welcomeDismissCommand)
	rootCmd.AddCommand(welcomeCommand)
}

func openDashboard(cmd *cobra.Command) (*app, *upload.Dashboard, error) {
	a, err := openApp(cmd.OutOrStdout())
	if err != nil {
		return nil, nil, err
	}
	d := upload.NewDashboard(upload.Config{Store: a.store, Logger: a.log})
	if err := d.Mount(); err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, d, nil
}

func runWelcomeShow(cmd *cobra.Command, _ []string) error {
	a, d, err := openDashboard(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if d.ShowWelcome() {
		a.printer.PrintWelcome()
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "The welcome was already dismissed")
	return nil
}

func runWelcomeDismiss(cmd *cobra.Command, _ []string) error {
	a, d, err := openDashboard(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	return d.DismissWelcome()
}
