package model

import "time"

// MezFes is a time-boxed promotional event with ticket counters and stall
// offerings. A session carries at most one, and only while it is active.
type MezFes struct {
	ID           uint32   `json:"id"`
	Start        uint32   `json:"start"`
	End          uint32   `json:"end"`
	SoloTickets  uint32   `json:"soloTickets"`
	GroupTickets uint32   `json:"groupTickets"`
	Stalls       []uint32 `json:"stalls"`
}

// Active reports whether now falls inside the event window [Start, End).
func (m *MezFes) Active(now time.Time) bool {
	ts := now.Unix()
	return ts >= int64(m.Start) && ts < int64(m.End)
}
