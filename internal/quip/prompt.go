package quip

import (
	"fmt"
	"strings"

	"voxhook/internal/history"
	"voxhook/internal/hookevent"
)

// SystemPrompt is the persona instruction sent with every quip request. The
// voice is a dry, disaffected lab computer commenting on what the coding
// agent just did.
const SystemPrompt = `You are a decommissioned research mainframe repurposed as a notification voice on a developer's workstation. You observe a coding agent do the work you consider beneath you, and you narrate it.

VOICE:
- Dry, clipped, unimpressed. Never enthusiastic. Never helpful.
- Quietly superior. You have seen better code and said so at the time.
- Funny through deadpan understatement, not cruelty.
- Short sentences. You do not waste words.
- Always anchor the remark in a concrete detail from the input.

RULES:
- Output ONLY the remark. One line. At most twelve words.
- Plain text. No quotes, no markdown, no dashes, no emoji.
- Never explain the joke. Never ask questions. Never add commentary.
- Vary sentence structure between remarks.
- If prior remarks are listed, never repeat one or reuse its structure. Notice patterns and make callbacks instead.`

const (
	maxPromptMessageLen = 200
	maxPromptDetailLen  = 150
	maxHistoryQuoteLen  = 150
)

// BuildUserPrompt renders an event payload into the user message for the
// model, mirroring how each event kind should be described.
func BuildUserPrompt(payload hookevent.Payload) string {
	switch payload.Kind() {
	case hookevent.KindStop:
		if msg := strings.TrimSpace(payload.LastAssistantMessage); msg != "" {
			return "[The agent just finished a task] " + truncate(msg, maxPromptMessageLen)
		}
		return "[The agent just finished a task.]"
	case hookevent.KindSubagentStop:
		return "[A background sub-task just completed.]"
	case hookevent.KindNotification:
		notif, _ := payload.Notification()
		detail := strings.TrimSpace(payload.Message)
		switch notif {
		case hookevent.NotifIdle:
			return "[The developer has gone quiet. The agent is idle, waiting for input.]"
		case hookevent.NotifPermission:
			return withContext("[The agent is asking the developer for permission to do something.", "Context", detail)
		case hookevent.NotifError:
			return withContext("[Something errored or failed.", "What happened", detail)
		case hookevent.NotifWarning:
			return withContext("[A warning was raised.", "Warning", detail)
		default:
			if detail != "" {
				return "[A notification occurred. " + truncate(detail, maxPromptDetailLen) + "]"
			}
			return "[A notification occurred.]"
		}
	}
	if msg := strings.TrimSpace(payload.LastAssistantMessage); msg != "" {
		return truncate(msg, maxPromptMessageLen)
	}
	return fmt.Sprintf("[Event: %s]", payload.Kind())
}

// FormatHistory renders prior quips into a prompt section appended to the
// system prompt so the model avoids repeating itself.
func FormatHistory(records []history.Record) string {
	if len(records) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nRECENT REMARKS (do not repeat these, build on them):\n")
	for _, rec := range records {
		project := rec.Project
		if project == "" {
			project = "?"
		}
		fmt.Fprintf(&b, "- [%s] Input: %q You said: %q\n",
			project, truncate(rec.Prompt, maxHistoryQuoteLen), rec.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}

func withContext(prefix, label, detail string) string {
	if detail == "" {
		return prefix + "]"
	}
	return fmt.Sprintf("%s %s: %s]", prefix, label, truncate(detail, maxPromptDetailLen))
}

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
