package launcher

import (
	"fmt"
	"log/slog"

	"github.com/mhfrontier/launcher/pkg/mhf"
	"github.com/mhfrontier/launcher/pkg/model"
	"github.com/mhfrontier/launcher/pkg/protocol"
)

// State is the engine's workflow state.
type State int

const (
	// StateLogin accepts credentials; login and register are the only
	// operations.
	StateLogin State = iota
	// StateCharacter lists the session's characters for start, create
	// and delete.
	StateCharacter
)

func (s State) String() string {
	switch s {
	case StateLogin:
		return "login"
	case StateCharacter:
		return "character"
	default:
		return "unknown"
	}
}

// Engine owns the session and drives the workflow from login to game
// start. Operations are synchronous and the engine is not safe for
// concurrent use: the frontend issues one call at a time and re-renders
// from State, Session and LastError afterwards.
type Engine struct {
	client  *Client
	runtime mhf.Runtime
	folder  string

	state    State
	session  model.Session
	username string
	password string
}

// NewEngine creates an engine in the login state. folder is the game
// installation directory placed into every launch configuration.
func NewEngine(client *Client, runtime mhf.Runtime, folder string) *Engine {
	return &Engine{
		client:  client,
		runtime: runtime,
		folder:  folder,
	}
}

func (e *Engine) State() State { return e.state }

// Session returns the engine's session model. The frontend renders from
// it; a fresh login replaces it wholesale.
func (e *Engine) Session() *model.Session { return &e.session }

// LastError returns the retained message of the most recent failed
// request, empty when the last request succeeded.
func (e *Engine) LastError() string { return e.client.LastError() }

// Login authenticates against the selected server. On success the
// session is replaced with the server's snapshot and the engine moves to
// character selection; on failure state and session are left untouched.
func (e *Engine) Login(username, password string) error {
	return e.authenticate(protocol.PathLogin, username, password)
}

// Register creates an account and signs it in. Outcome handling matches
// Login.
func (e *Engine) Register(username, password string) error {
	return e.authenticate(protocol.PathRegister, username, password)
}

func (e *Engine) authenticate(path, username, password string) error {
	var sess model.Session
	req := protocol.AuthRequest{Username: username, Password: password}
	if err := e.client.Post(path, req, &sess); err != nil {
		return err
	}

	e.session = sess
	e.username = username
	e.password = password
	e.state = StateCharacter
	slog.Info("signed in", "user", username, "characters", len(sess.Characters))
	return nil
}

// CreateCharacter asks the server for a fresh character slot, appends it
// to the session and immediately starts the game with it so the player
// lands in the in-game creation flow.
func (e *Engine) CreateCharacter() error {
	if e.state != StateCharacter {
		return fmt.Errorf("not signed in")
	}

	var ch model.Character
	req := protocol.CreateCharacterRequest{Token: e.session.User.Token}
	if err := e.client.Post(protocol.PathCharacterCreate, req, &ch); err != nil {
		return err
	}

	e.session.AddCharacter(ch)
	return e.start(ch)
}

// DeleteCharacter removes the character on the server and then from the
// session, preserving the order of the remaining characters. Deleting an
// id the server no longer knows succeeds and leaves the session as-is.
func (e *Engine) DeleteCharacter(id uint32) error {
	if e.state != StateCharacter {
		return fmt.Errorf("not signed in")
	}

	req := protocol.DeleteCharacterRequest{Token: e.session.User.Token, CharID: id}
	var empty protocol.Empty
	if err := e.client.Post(protocol.PathCharacterDelete, req, &empty); err != nil {
		return err
	}

	e.session.RemoveCharacter(id)
	slog.Info("character deleted", "char", id)
	return nil
}

// StartCharacter hands the chosen character off to the game runtime. No
// network call is involved; an error is a handoff failure the frontend
// treats as fatal.
func (e *Engine) StartCharacter(id uint32) error {
	if e.state != StateCharacter {
		return fmt.Errorf("not signed in")
	}

	ch, ok := e.session.Character(id)
	if !ok {
		return fmt.Errorf("no character with id %d", id)
	}
	return e.start(ch)
}

func (e *Engine) start(ch model.Character) error {
	cfg, err := mhf.BuildConfig(&e.session, e.username, e.password, ch, e.folder)
	if err != nil {
		return err
	}
	slog.Info("starting game", "char", ch.ID, "name", ch.Name)
	return e.runtime.Run(cfg)
}

// Logout returns to the login state and clears the retained error. The
// session data itself is kept; the next successful login replaces it.
func (e *Engine) Logout() {
	e.client.ClearError()
	e.state = StateLogin
	slog.Info("signed out", "user", e.username)
}
