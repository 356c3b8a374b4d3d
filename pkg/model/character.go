package model

// Character is a playable entity belonging to the authenticated account.
// IDs are unique per account and assigned by the server; the client never
// re-validates them.
type Character struct {
	ID        uint32 `json:"id"`
	Name      string `json:"name"`
	IsNew     bool   `json:"isNew"`
	IsFemale  bool   `json:"isFemale"`
	Weapon    uint32 `json:"weapon"`
	HR        uint32 `json:"hr"`
	GR        uint32 `json:"gr"`
	LastLogin int64  `json:"lastLogin"`
}
