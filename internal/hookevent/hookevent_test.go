package hookevent

import (
	"strings"
	"testing"
)

func TestDecodeValidPayload(t *testing.T) {
	input := `{"hook_event_name":"Notification","cwd":"/home/dev/daylight","message":"Claude needs your permission to use Bash"}`

	p := Decode(strings.NewReader(input))
	if p.Kind() != KindNotification {
		t.Errorf("Kind: got %q", p.Kind())
	}
	if p.ProjectName() != "daylight" {
		t.Errorf("ProjectName: got %q", p.ProjectName())
	}
}

func TestDecodeMalformedInputDefaultsToStop(t *testing.T) {
	for _, input := range []string{"", "not json at all", "{\"hook_event_name\":"} {
		p := Decode(strings.NewReader(input))
		if p.Kind() != KindStop {
			t.Errorf("Decode(%q).Kind(): got %q, want Stop", input, p.Kind())
		}
	}
}

func TestProjectNameEmptyWithoutCWD(t *testing.T) {
	p := Payload{}
	if p.ProjectName() != "" {
		t.Errorf("ProjectName on empty cwd: got %q", p.ProjectName())
	}
}

func TestIsDelegate(t *testing.T) {
	cases := []struct {
		payload Payload
		want    bool
	}{
		{Payload{SessionMode: "delegate"}, true},
		{Payload{PermissionMode: "delegate"}, true},
		{Payload{SessionMode: "interactive"}, false},
		{Payload{}, false},
	}
	for _, tc := range cases {
		if got := tc.payload.IsDelegate(); got != tc.want {
			t.Errorf("IsDelegate(%+v): got %v, want %v", tc.payload, got, tc.want)
		}
	}
}

func TestNotificationPrefersStructuredField(t *testing.T) {
	p := Payload{NotificationType: "idle_prompt", Message: "permission to use Bash"}
	notif, idle := p.Notification()
	if notif != NotifIdle || !idle {
		t.Errorf("structured idle_prompt not honored: %q idle=%v", notif, idle)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	p := Payload{HookEventName: "Notification", CWD: "/home/dev/daylight", Message: "hi"}
	data, err := p.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := Decode(strings.NewReader(string(data)))
	if got.Kind() != KindNotification || got.ProjectName() != "daylight" || got.Message != "hi" {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		message string
		want    NotificationType
	}{
		{"Claude needs your permission to use Bash", NotifPermission},
		{"Claude is waiting for your input", NotifIdle},
		{"TypeError: operation failed", NotifError},
		{"Warning: deprecated API usage", NotifWarning},
		{"something happened", NotifGeneral},
		{"", NotifGeneral},
	}
	for _, tc := range cases {
		if got := Categorize(tc.message); got != tc.want {
			t.Errorf("Categorize(%q): got %q, want %q", tc.message, got, tc.want)
		}
	}
}
