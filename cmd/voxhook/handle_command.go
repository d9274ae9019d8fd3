package main

import (
	"github.com/spf13/cobra"

	"voxhook/internal/hook"
	"voxhook/internal/hookevent"
	"voxhook/internal/logging"
	"voxhook/internal/messages"
	"voxhook/internal/notify"
)

// newHandleCommand is the hook entry point: event JSON on stdin, always exit
// zero. A failing notification hook would surface as an agent error, so every
// problem is logged instead of returned.
func newHandleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "handle",
		Short: "Handle a lifecycle event delivered on stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctx.loggerValue()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				logger.Error("load config", logging.Error(err))
				return nil
			}
			store, err := ctx.cacheStore()
			if err != nil {
				logger.Error("open cache", logging.Error(err))
				return nil
			}
			audio, err := ctx.audioPlayer()
			if err != nil {
				logger.Error("init player", logging.Error(err))
				return nil
			}

			payload := hookevent.Decode(cmd.InOrStdin())
			catalog := messages.Load(cfg.Events.TemplatesPath, logger)
			handler := hook.New(cfg, store, catalog, audio, notify.NewService(cfg), logger)
			handler.Handle(cmd.Context(), payload)
			return nil
		},
	}
}
