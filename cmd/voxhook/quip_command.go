package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"voxhook/internal/fsatomic"
	"voxhook/internal/history"
	"voxhook/internal/hookevent"
	"voxhook/internal/logging"
	"voxhook/internal/quip"
)

// newQuipCommand generates and speaks a dynamic one-liner for the payload on
// stdin. It runs as a fire-and-forget child of `handle`, so it is hidden and
// every failure is logged and swallowed.
func newQuipCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:    "quip",
		Short:  "Generate and speak a dynamic one-liner (internal)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := ctx.loggerValue()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				logger.Error("load config", logging.Error(err))
				return nil
			}
			if !cfg.Quip.Enabled {
				return nil
			}

			payload := hookevent.Decode(cmd.InOrStdin())
			hist, err := ctx.historyLog()
			if err != nil {
				logger.Error("open history", logging.Error(err))
				return nil
			}

			client := quip.NewClient(quip.Config{
				APIKey:         cfg.Quip.APIKey,
				BaseURL:        cfg.Quip.BaseURL,
				Model:          cfg.Quip.Model,
				Referer:        cfg.Quip.Referer,
				Title:          cfg.Quip.Title,
				TimeoutSeconds: cfg.Quip.TimeoutSeconds,
				MaxWords:       cfg.Quip.MaxWords,
			})

			system := quip.SystemPrompt
			if section := quip.FormatHistory(hist.Recent(cfg.History.MaxEntries)); section != "" {
				system += "\n" + section
			}
			userPrompt := quip.BuildUserPrompt(payload)

			text, err := client.Generate(cmd.Context(), system, userPrompt)
			if err != nil {
				logger.Warn("generate quip", logging.Error(err))
				return nil
			}

			project := payload.ProjectName()
			if err := hist.Append(cmd.Context(), history.Record{
				EventKind: string(payload.Kind()),
				Project:   project,
				Prompt:    userPrompt,
				Text:      text,
			}); err != nil {
				logger.Warn("append history", logging.Error(err))
			}

			// The project name is spoken in the same clip so nothing can
			// interleave between the two.
			spoken := text
			if project != "" {
				spoken = project + ". " + text
			}
			if err := speakQuip(cmd, ctx, spoken); err != nil {
				logger.Warn("speak quip", logging.Error(err))
			}
			return nil
		},
	}
}

// speakQuip synthesizes to a throwaway temp file. Quips are one-offs and
// never enter the cache.
func speakQuip(cmd *cobra.Command, ctx *commandContext, text string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Audio.Enabled {
		return nil
	}
	engine, err := newEngine(cfg, ctx)
	if err != nil {
		return err
	}
	synthCtx, cancel := synthTimeout(cmd)
	defer cancel()
	audio, err := engine.Synthesize(synthCtx, text)
	if err != nil {
		return err
	}

	tmpPath := filepath.Join(os.TempDir(), "voxhook-quip-"+uuid.NewString()+".wav")
	if err := fsatomic.WriteFile(tmpPath, audio, 0o644); err != nil {
		return err
	}
	defer os.Remove(tmpPath)

	audioPlayer, err := ctx.audioPlayer()
	if err != nil {
		return err
	}
	return audioPlayer.Play(cmd.Context(), tmpPath)
}

func synthTimeout(cmd *cobra.Command) (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), time.Minute)
}
