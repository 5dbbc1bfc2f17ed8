package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Dismiss every toast and empty the queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := newClient().Clear()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d toast(s)\n", n)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running notimand",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Stop(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "notimand stopping")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(stopCmd)
}
