package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newMuteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mute",
		Short: "Silence all voice output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := os.WriteFile(cfg.MutePath(), nil, 0o644); err != nil {
				return fmt.Errorf("write mute file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Muted")
			return nil
		},
	}
}

func newUnmuteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unmute",
		Short: "Restore voice output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := os.Remove(cfg.MutePath()); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove mute file: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Unmuted")
			return nil
		},
	}
}
