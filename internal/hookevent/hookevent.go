// Package hookevent models the JSON payload the agent delivers on stdin for
// each lifecycle event.
//
// Decoding is deliberately forgiving: a hook handler that exits non-zero or
// crashes on malformed input would stall the event pipeline, so an empty or
// unparseable payload decodes to a default Stop event instead of an error.
package hookevent

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
)

// Kind identifies a lifecycle event.
type Kind string

const (
	KindStop         Kind = "Stop"
	KindNotification Kind = "Notification"
	KindSubagentStop Kind = "SubagentStop"
)

// NotificationType categorizes Notification events.
type NotificationType string

const (
	NotifPermission NotificationType = "permission_request"
	NotifIdle       NotificationType = "idle_timeout"
	NotifError      NotificationType = "error"
	NotifWarning    NotificationType = "warning"
	NotifGeneral    NotificationType = "general"
)

// Payload is the hook JSON read from stdin.
type Payload struct {
	HookEventName        string `json:"hook_event_name"`
	CWD                  string `json:"cwd"`
	Message              string `json:"message"`
	NotificationType     string `json:"notification_type"`
	LastAssistantMessage string `json:"last_assistant_message"`
	SessionMode          string `json:"session_mode"`
	PermissionMode       string `json:"permission_mode"`
}

// Decode reads a payload from r. Malformed or empty input yields a zero
// payload, never an error.
func Decode(r io.Reader) Payload {
	var p Payload
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return p
	}
	_ = json.Unmarshal(data, &p)
	return p
}

// Encode serializes the payload back to JSON for handoff to a subprocess.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// Kind returns the event kind, defaulting to Stop when the field is absent.
func (p Payload) Kind() Kind {
	name := strings.TrimSpace(p.HookEventName)
	if name == "" {
		return KindStop
	}
	return Kind(name)
}

// ProjectName extracts the project name from the working directory.
func (p Payload) ProjectName() string {
	cwd := strings.TrimSpace(p.CWD)
	if cwd == "" {
		return ""
	}
	return filepath.Base(cwd)
}

// IsDelegate reports whether the payload came from a delegate (sub-agent)
// session, which most users want silenced.
func (p Payload) IsDelegate() bool {
	return p.SessionMode == "delegate" || p.PermissionMode == "delegate"
}

// Notification resolves the notification sub-type. The structured field wins
// when present; otherwise the message text is categorized. The second return
// reports whether this is an idle notification, which is subject to cooldown.
func (p Payload) Notification() (NotificationType, bool) {
	if strings.TrimSpace(p.NotificationType) == "idle_prompt" {
		return NotifIdle, true
	}
	notif := Categorize(p.Message)
	return notif, notif == NotifIdle
}

// Categorize maps free-form notification text to a sub-type.
func Categorize(message string) NotificationType {
	if strings.TrimSpace(message) == "" {
		return NotifGeneral
	}
	lower := strings.ToLower(message)
	if strings.Contains(lower, "permission") && strings.Contains(lower, "use") {
		return NotifPermission
	}
	if strings.Contains(lower, "waiting for your input") || strings.Contains(lower, "waiting for input") {
		return NotifIdle
	}
	for _, keyword := range []string{"error", "failed", "exception", "critical"} {
		if strings.Contains(lower, keyword) {
			return NotifError
		}
	}
	for _, keyword := range []string{"warning", "warn", "caution"} {
		if strings.Contains(lower, keyword) {
			return NotifWarning
		}
	}
	return NotifGeneral
}
