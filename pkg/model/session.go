// Package model defines the session, character, and event types issued by
// the sign server.
package model

// Session is the server-issued state bundle for one login. It is created
// empty and replaced wholesale on every successful login or registration,
// never partially merged.
type Session struct {
	CurrentTS     uint32      `json:"currentTs"`
	ExpiryTS      uint32      `json:"expiryTs"`
	EntranceCount uint32      `json:"entranceCount"`
	Notifications []string    `json:"notifications"`
	User          User        `json:"user"`
	Characters    []Character `json:"characters"`
	MezFes        *MezFes     `json:"mezFes"`
}

// AddCharacter appends a character to the session.
func (s *Session) AddCharacter(c Character) {
	s.Characters = append(s.Characters, c)
}

// RemoveCharacter removes the character with the given id, keeping the
// relative order of the rest. It reports whether a character was removed.
func (s *Session) RemoveCharacter(id uint32) bool {
	for i, c := range s.Characters {
		if c.ID == id {
			s.Characters = append(s.Characters[:i], s.Characters[i+1:]...)
			return true
		}
	}
	return false
}

// Character returns the character with the given id.
func (s *Session) Character(id uint32) (Character, bool) {
	for _, c := range s.Characters {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// CharacterIDs returns the ids of all characters in session order.
// The returned slice is a snapshot, not a view.
func (s *Session) CharacterIDs() []uint32 {
	ids := make([]uint32, len(s.Characters))
	for i, c := range s.Characters {
		ids[i] = c.ID
	}
	return ids
}
