package messages

import (
	"os"
	"path/filepath"
	"testing"

	"voxhook/internal/hookevent"
)

func TestPickStopDrawsFromGenericPool(t *testing.T) {
	catalog := Load("", nil)
	catalog.pick = func(n int) int { return 0 }

	phrase := catalog.Pick(hookevent.KindStop, "")
	if phrase == "" {
		t.Fatal("Pick returned an empty phrase")
	}

	found := false
	for _, p := range catalog.AllStatic() {
		if p == phrase {
			found = true
		}
	}
	if !found {
		t.Errorf("picked phrase %q is not part of the catalog", phrase)
	}
}

func TestPickNotificationSubtype(t *testing.T) {
	catalog := Load("", nil)
	catalog.pick = func(n int) int { return 0 }

	perm := catalog.Pick(hookevent.KindNotification, hookevent.NotifPermission)
	idle := catalog.Pick(hookevent.KindNotification, hookevent.NotifIdle)
	if perm == idle {
		t.Errorf("distinct subtypes drew the same deterministic phrase: %q", perm)
	}
}

func TestPickUnknownSubtypeFallsBackToGeneral(t *testing.T) {
	catalog := Load("", nil)
	catalog.pick = func(n int) int { return 0 }

	phrase := catalog.Pick(hookevent.KindNotification, hookevent.NotificationType("nonsense"))
	general := catalog.Pick(hookevent.KindNotification, hookevent.NotifGeneral)
	if phrase != general {
		t.Errorf("unknown subtype: got %q, want general pool phrase %q", phrase, general)
	}
}

func TestPickNeverEmpty(t *testing.T) {
	catalog := Load("", nil)
	catalog.pools = pools{}

	if phrase := catalog.Pick(hookevent.KindStop, ""); phrase == "" {
		t.Error("Pick with empty pools returned an empty phrase")
	}
}

func TestAllStaticIsUniqueAndSorted(t *testing.T) {
	catalog := Load("", nil)
	phrases := catalog.AllStatic()
	if len(phrases) == 0 {
		t.Fatal("no static phrases in built-in catalog")
	}
	for i := 1; i < len(phrases); i++ {
		if phrases[i] <= phrases[i-1] {
			t.Errorf("phrases not sorted/unique at %d: %q, %q", i, phrases[i-1], phrases[i])
		}
	}
}

func TestOverrideReplacesBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	override := `{"Stop":{"generic":["Override complete."]}}`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog := Load(path, nil)
	catalog.pick = func(n int) int { return 0 }
	if got := catalog.Pick(hookevent.KindStop, ""); got != "Override complete." {
		t.Errorf("override not applied: got %q", got)
	}
}

func TestCorruptOverrideKeepsBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	if err := os.WriteFile(path, []byte("{bad"), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog := Load(path, nil)
	if len(catalog.AllStatic()) == 0 {
		t.Error("corrupt override wiped the built-in catalog")
	}
}

func TestEmptyPoolOverrideRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	if err := os.WriteFile(path, []byte(`{"Stop":{"generic":[]}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	catalog := Load(path, nil)
	catalog.pick = func(n int) int { return 0 }
	if got := catalog.Pick(hookevent.KindStop, ""); got == "" {
		t.Error("empty override pool leaked through validation")
	}
}
