// Package protocol defines the HTTP+JSON wire contract between the
// launcher and a sign server.
//
// All requests are POSTs with a JSON body; field names are lowerCamelCase
// on the wire. Success responses are JSON (a session snapshot, a single
// character, or an empty object); error responses are non-2xx with a
// plain textual body that clients surface to the user verbatim.
package protocol

// Request paths, relative to the configured base URL.
const (
	PathLogin           = "/login"
	PathRegister        = "/register"
	PathCharacterCreate = "/character/create"
	PathCharacterDelete = "/character/delete"
)

// AuthRequest is the body of login and register requests.
type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateCharacterRequest is the body of a character-create request.
// The token is the session token issued at login.
type CreateCharacterRequest struct {
	Token string `json:"token"`
}

// DeleteCharacterRequest is the body of a character-delete request.
type DeleteCharacterRequest struct {
	Token  string `json:"token"`
	CharID uint32 `json:"charId"`
}

// Empty is the body of responses that carry no data, such as a
// successful character delete.
type Empty struct{}
