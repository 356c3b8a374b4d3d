package signserver

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mhfrontier/launcher/pkg/mhf"
	"github.com/mhfrontier/launcher/pkg/model"
)

// Event holds the notifications and the optional festival event that go
// into session snapshots.
type Event struct {
	Notifications []string
	MezFes        *model.MezFes
}

type mezFesYAML struct {
	ID           uint32   `yaml:"id"`
	Start        uint32   `yaml:"start"`
	End          uint32   `yaml:"end"`
	SoloTickets  uint32   `yaml:"solo_tickets"`
	GroupTickets uint32   `yaml:"group_tickets"`
	Stalls       []uint32 `yaml:"stalls"`
}

type eventYAML struct {
	Notifications []string    `yaml:"notifications"`
	MezFes        *mezFesYAML `yaml:"mezfes"`
}

// LoadEvent reads the event configuration from a YAML file. Stall codes
// are validated against the known set so operator typos surface at
// startup instead of as launch failures on every client.
func LoadEvent(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("signserver: read event config: %w", err)
	}

	var raw eventYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("signserver: parse event config: %w", err)
	}

	ev := &Event{Notifications: raw.Notifications}
	if raw.MezFes != nil {
		if _, err := mhf.StallsFromCodes(raw.MezFes.Stalls); err != nil {
			return nil, fmt.Errorf("signserver: event config: %w", err)
		}
		ev.MezFes = &model.MezFes{
			ID:           raw.MezFes.ID,
			Start:        raw.MezFes.Start,
			End:          raw.MezFes.End,
			SoloTickets:  raw.MezFes.SoloTickets,
			GroupTickets: raw.MezFes.GroupTickets,
			Stalls:       raw.MezFes.Stalls,
		}
	}
	return ev, nil
}

// ActiveMezFes returns the configured event while now falls inside its
// window, nil otherwise.
func (e *Event) ActiveMezFes(now time.Time) *model.MezFes {
	if e == nil || e.MezFes == nil || !e.MezFes.Active(now) {
		return nil
	}
	return e.MezFes
}
