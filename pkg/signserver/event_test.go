package signserver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mhfrontier/launcher/pkg/mhf"
)

func writeEventFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadEvent(t *testing.T) {
	path := writeEventFile(t, `
notifications:
  - "Welcome back!"
  - "Server maintenance on Sunday"
mezfes:
  id: 77
  start: 1700000000
  end: 1700600000
  solo_tickets: 5
  group_tickets: 2
  stalls: [1, 2, 5]
`)

	ev, err := LoadEvent(path)
	if err != nil {
		t.Fatalf("LoadEvent: %v", err)
	}
	if len(ev.Notifications) != 2 {
		t.Errorf("notifications = %d, want 2", len(ev.Notifications))
	}
	if ev.MezFes == nil || ev.MezFes.ID != 77 || len(ev.MezFes.Stalls) != 3 {
		t.Errorf("unexpected mezfes: %+v", ev.MezFes)
	}

	if got := ev.ActiveMezFes(time.Unix(1700000500, 0)); got == nil {
		t.Error("event should be active inside the window")
	}
	if got := ev.ActiveMezFes(time.Unix(1700600000, 0)); got != nil {
		t.Error("event should be inactive at the end boundary")
	}
}

func TestLoadEventUnknownStall(t *testing.T) {
	path := writeEventFile(t, `
mezfes:
  id: 1
  stalls: [1, 99]
`)

	_, err := LoadEvent(path)
	if !errors.Is(err, mhf.ErrUnknownStall) {
		t.Fatalf("got %v, want ErrUnknownStall", err)
	}
}

func TestLoadEventNoMezfes(t *testing.T) {
	path := writeEventFile(t, `
notifications:
  - "hello"
`)

	ev, err := LoadEvent(path)
	if err != nil {
		t.Fatalf("LoadEvent: %v", err)
	}
	if ev.MezFes != nil {
		t.Errorf("mezfes = %+v, want nil", ev.MezFes)
	}
	if ev.ActiveMezFes(time.Now()) != nil {
		t.Error("no configured event should never be active")
	}
}

func TestLoadEventMissingFile(t *testing.T) {
	if _, err := LoadEvent(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
