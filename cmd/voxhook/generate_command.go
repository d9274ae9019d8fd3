package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"voxhook/internal/audiocache"
	"voxhook/internal/config"
	"voxhook/internal/fingerprint"
	"voxhook/internal/logging"
	"voxhook/internal/messages"
	"voxhook/internal/synth"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var preGenerate bool
	var text string
	var project string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize speech into the audio cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := 0
			for _, set := range []bool{preGenerate, text != "", project != ""} {
				if set {
					modes++
				}
			}
			if modes != 1 {
				return errors.New("exactly one of --pre-generate, --text, or --project is required")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			engine, err := newEngine(cfg, ctx)
			if err != nil {
				return err
			}
			store, err := ctx.cacheStore()
			if err != nil {
				return err
			}
			logger := ctx.loggerValue()

			switch {
			case preGenerate:
				return preGenerateAll(cmd.Context(), cfg, store, engine, logger, cmd)
			case text != "":
				_, err := generateText(cmd.Context(), cfg, store, engine, text)
				return err
			default:
				_, err := generateProject(cmd.Context(), store, engine, project)
				return err
			}
		},
	}

	cmd.Flags().BoolVar(&preGenerate, "pre-generate", false, "Generate all static template phrases")
	cmd.Flags().StringVar(&text, "text", "", "Generate a single phrase")
	cmd.Flags().StringVar(&project, "project", "", "Generate a project name clip")
	return cmd
}

func newEngine(cfg *config.Config, ctx *commandContext) (synth.Generator, error) {
	switch cfg.TTS.Engine {
	case "piper":
		return synth.NewPiperEngine(cfg.TTS.PiperBinary, cfg.TTS.PiperModel, cfg.TTS.SampleRate, ctx.loggerValue()), nil
	case "none":
		return nil, errors.New("tts.engine is \"none\"; nothing to generate")
	default:
		return nil, fmt.Errorf("unsupported tts engine %q", cfg.TTS.Engine)
	}
}

func generateText(ctx context.Context, cfg *config.Config, store *audiocache.Store, engine synth.Generator, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty text")
	}
	fp := fingerprint.WithVoice(text, cfg.TTS.Voice)
	if path, ok, err := store.Lookup(ctx, fp); err == nil && ok {
		return path, nil
	}
	audio, err := engine.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}
	return store.Insert(ctx, fp, audio)
}

func generateProject(ctx context.Context, store *audiocache.Store, engine synth.Generator, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty project name")
	}
	fp := fingerprint.Project(name)
	if path, ok, err := store.Lookup(ctx, fp); err == nil && ok {
		return path, nil
	}
	audio, err := engine.Synthesize(ctx, name)
	if err != nil {
		return "", err
	}
	return store.Insert(ctx, fp, audio)
}

func preGenerateAll(ctx context.Context, cfg *config.Config, store *audiocache.Store, engine synth.Generator, logger *slog.Logger, cmd *cobra.Command) error {
	catalog := messages.Load(cfg.Events.TemplatesPath, logger)
	phrases := catalog.AllStatic()

	var generated, skipped, failed int
	for _, phrase := range phrases {
		fp := fingerprint.WithVoice(phrase, cfg.TTS.Voice)
		if _, ok, err := store.Lookup(ctx, fp); err == nil && ok {
			skipped++
			continue
		}
		audio, err := engine.Synthesize(ctx, phrase)
		if err != nil {
			logger.Warn("synthesize phrase", logging.String("text", phrase), logging.Error(err))
			failed++
			continue
		}
		if _, err := store.Insert(ctx, fp, audio); err != nil {
			logger.Warn("cache phrase", logging.String("text", phrase), logging.Error(err))
			failed++
			continue
		}
		generated++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pre-generation complete. Generated: %d, skipped: %d, failed: %d\n",
		generated, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d phrases failed to generate", failed)
	}
	return nil
}
