package signserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mhfrontier/launcher/pkg/crypto"
	"github.com/mhfrontier/launcher/pkg/datastore"
	"github.com/mhfrontier/launcher/pkg/model"
	"github.com/mhfrontier/launcher/pkg/protocol"
)

// Error bodies the client displays verbatim.
const (
	msgBadCredentials = "invalid username or password"
	msgUsernameTaken  = "username already taken"
	msgBadToken       = "invalid or expired token"
	msgCharLimit      = "character limit reached"
	msgNotOwned       = "character does not belong to this account"
	msgBadBody        = "malformed request body"
	msgInternal       = "internal error"
)

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// decodeBody decodes a JSON request body, replying 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.metrics.RequestErrors.Add(1)
		writeError(w, http.StatusBadRequest, msgBadBody)
		return false
	}
	return true
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.metrics.RequestErrors.Add(1)
	slog.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// authorize verifies a session token, replying 401 on failure.
func (s *Server) authorize(w http.ResponseWriter, token string) (*Claims, bool) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.metrics.FailedAuths.Add(1)
		slog.Debug("rejected token", "error", err)
		writeError(w, http.StatusUnauthorized, msgBadToken)
		return nil, false
	}
	return claims, true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req protocol.AuthRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	acc, err := s.store.AccountByUsername(req.Username)
	if errors.Is(err, datastore.ErrNotFound) {
		s.metrics.FailedAuths.Add(1)
		writeError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}
	if err != nil {
		s.internalError(w, "load account", err)
		return
	}
	if !crypto.VerifyPassword(acc.PasswordHash, req.Password) {
		s.metrics.FailedAuths.Add(1)
		slog.Info("rejected login", "user", req.Username)
		writeError(w, http.StatusUnauthorized, msgBadCredentials)
		return
	}

	if s.signIn(w, acc) {
		s.metrics.Logins.Add(1)
		slog.Info("login", "user", acc.Username)
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req protocol.AuthRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := model.ValidateUsername(req.Username); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := model.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		s.internalError(w, "hash password", err)
		return
	}

	acc, err := s.store.CreateAccount(req.Username, hash, model.Rights(s.cfg.DefaultRights))
	if errors.Is(err, datastore.ErrExists) {
		writeError(w, http.StatusConflict, msgUsernameTaken)
		return
	}
	if err != nil {
		s.internalError(w, "create account", err)
		return
	}

	if s.signIn(w, acc) {
		s.metrics.Registrations.Add(1)
		slog.Info("account registered", "user", acc.Username)
	}
}

// signIn records the entrance and writes a full session snapshot for a
// verified account.
func (s *Server) signIn(w http.ResponseWriter, acc *datastore.Account) bool {
	entrance, err := s.store.RecordEntrance(acc.ID, s.now())
	if err != nil {
		s.internalError(w, "record entrance", err)
		return false
	}
	chars, err := s.store.Characters(acc.ID)
	if err != nil {
		s.internalError(w, "load characters", err)
		return false
	}

	sess, err := s.sessionSnapshot(acc, entrance, chars)
	if err != nil {
		s.internalError(w, "issue token", err)
		return false
	}
	writeJSON(w, sess)
	return true
}

func (s *Server) sessionSnapshot(acc *datastore.Account, entrance uint32, chars []model.Character) (model.Session, error) {
	now := s.now()
	token, expiry, err := s.tokens.Issue(acc)
	if err != nil {
		return model.Session{}, err
	}

	return model.Session{
		CurrentTS:     uint32(now.Unix()),
		ExpiryTS:      uint32(expiry.Unix()),
		EntranceCount: entrance,
		Notifications: s.event.Notifications,
		User: model.User{
			Rights: acc.Rights,
			Token:  token,
		},
		Characters: chars,
		MezFes:     s.event.ActiveMezFes(now),
	}, nil
}

func (s *Server) handleCharacterCreate(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req protocol.CreateCharacterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	claims, ok := s.authorize(w, req.Token)
	if !ok {
		return
	}

	chars, err := s.store.Characters(claims.UserID)
	if err != nil {
		s.internalError(w, "load characters", err)
		return
	}
	if len(chars) >= s.cfg.MaxCharacters {
		writeError(w, http.StatusForbidden, msgCharLimit)
		return
	}

	ch, err := s.store.CreateCharacter(claims.UserID, model.Character{IsNew: true})
	if err != nil {
		s.internalError(w, "create character", err)
		return
	}

	s.metrics.CharactersCreated.Add(1)
	slog.Info("character created", "user", claims.Username, "char", ch.ID)
	writeJSON(w, ch)
}

func (s *Server) handleCharacterDelete(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req protocol.DeleteCharacterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	claims, ok := s.authorize(w, req.Token)
	if !ok {
		return
	}

	err := s.store.DeleteCharacter(claims.UserID, req.CharID)
	if errors.Is(err, datastore.ErrNotOwned) {
		writeError(w, http.StatusForbidden, msgNotOwned)
		return
	}
	if err != nil {
		s.internalError(w, "delete character", err)
		return
	}

	s.metrics.CharactersDeleted.Add(1)
	slog.Info("character deleted", "user", claims.Username, "char", req.CharID)
	writeJSON(w, protocol.Empty{})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
