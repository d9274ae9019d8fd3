// Package messages selects the short spoken phrases voxhook announces per
// event.
//
// Phrases come from per-event, per-subtype pools. The built-in pools are
// embedded in the binary; a user override file replaces them wholesale when
// it parses and validates, and is ignored otherwise. Because every static
// phrase is pre-generated into the audio cache, the set of phrases doubles as
// the pre-generation worklist.
package messages

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"sort"

	_ "embed"

	"voxhook/internal/hookevent"
	"voxhook/internal/logging"
)

//go:embed templates.json
var builtinTemplates []byte

type pools map[string]map[string][]string

// Catalog holds the loaded message pools.
type Catalog struct {
	pools  pools
	logger *slog.Logger
	pick   func(n int) int
}

// Load builds a catalog. overridePath may be empty; when set and valid, its
// pools replace the built-ins entirely.
func Load(overridePath string, logger *slog.Logger) *Catalog {
	logger = logging.NewComponentLogger(logger, "messages")
	catalog := &Catalog{
		logger: logger,
		pick:   rand.IntN,
	}

	var builtin pools
	if err := json.Unmarshal(builtinTemplates, &builtin); err != nil {
		// The embedded file is part of the build; this cannot happen unless
		// the binary is broken, but fail open regardless.
		logger.Error("embedded templates malformed", logging.Error(err))
		builtin = pools{}
	}
	catalog.pools = builtin

	if overridePath == "" {
		return catalog
	}

	override, err := loadOverride(overridePath)
	if err != nil {
		logger.Warn("template override ignored",
			logging.String("path", overridePath),
			logging.Error(err))
		return catalog
	}
	catalog.pools = override
	return catalog
}

func loadOverride(path string) (pools, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	var p pools
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for event, subPools := range p {
		if len(subPools) == 0 {
			return nil, fmt.Errorf("templates[%q] has no pools", event)
		}
		for name, phrases := range subPools {
			if len(phrases) == 0 {
				return nil, fmt.Errorf("templates[%q][%q] is empty", event, name)
			}
		}
	}
	return p, nil
}

// Pick selects a phrase for the event. Notification events draw from the
// sub-type pool, falling back to the general pool; every other event draws
// from its generic pool. A last-resort constant keeps the caller supplied
// even with empty pools.
func (c *Catalog) Pick(kind hookevent.Kind, notif hookevent.NotificationType) string {
	pool := c.pools[string(kind)]

	var phrases []string
	if kind == hookevent.KindNotification {
		phrases = pool[string(notif)]
		if len(phrases) == 0 {
			phrases = pool[string(hookevent.NotifGeneral)]
		}
	} else {
		phrases = pool["generic"]
	}

	if len(phrases) == 0 {
		for _, subPool := range pool {
			phrases = append(phrases, subPool...)
		}
	}
	if len(phrases) == 0 {
		return "Task complete."
	}
	return phrases[c.pick(len(phrases))]
}

// AllStatic returns every unique phrase across all pools, sorted. This is the
// pre-generation worklist for warming the audio cache.
func (c *Catalog) AllStatic() []string {
	seen := map[string]struct{}{}
	for _, subPools := range c.pools {
		for _, phrases := range subPools {
			for _, phrase := range phrases {
				seen[phrase] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(seen))
	for phrase := range seen {
		out = append(out, phrase)
	}
	sort.Strings(out)
	return out
}
