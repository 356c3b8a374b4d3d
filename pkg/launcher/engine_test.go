package launcher

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhfrontier/launcher/pkg/mhf"
	"github.com/mhfrontier/launcher/pkg/model"
	"github.com/mhfrontier/launcher/pkg/protocol"
)

type fakeRuntime struct {
	configs []mhf.Config
	err     error
}

func (r *fakeRuntime) Run(cfg mhf.Config) error {
	r.configs = append(r.configs, cfg)
	return r.err
}

func newTestEngine(t *testing.T, h http.Handler) (*Engine, *fakeRuntime) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	rt := &fakeRuntime{}
	client := NewClient(Host{Kind: HostCustom, Custom: srv.URL})
	return NewEngine(client, rt, "C:/Games/MHF"), rt
}

func testSession() model.Session {
	return model.Session{
		CurrentTS:     1700000000,
		ExpiryTS:      1700003600,
		EntranceCount: 3,
		Notifications: []string{"maintenance tonight"},
		User:          model.User{Rights: 14, Token: "tok-1"},
		Characters: []model.Character{
			{ID: 1, Name: "Rathian", Weapon: 3, HR: 7},
			{ID: 2, Name: "Kirin", Weapon: 5, HR: 2},
			{ID: 3, Name: "Basarios", Weapon: 0, HR: 1},
		},
	}
}

func serveSession(t *testing.T, sess model.Session) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req protocol.AuthRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode auth request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sess)
	}
}

func TestLoginTransitionsToCharacterSelect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, serveSession(t, testSession()))

	eng, _ := newTestEngine(t, mux)
	require.Equal(t, StateLogin, eng.State())

	require.NoError(t, eng.Login("hunter", "pw"))
	require.Equal(t, StateCharacter, eng.State())
	require.Len(t, eng.Session().Characters, 3)
	require.Equal(t, "tok-1", eng.Session().User.Token)
	require.Empty(t, eng.LastError())
}

func TestLoginReplacesSessionWholesale(t *testing.T) {
	first := testSession()
	second := model.Session{
		CurrentTS:     1800000000,
		ExpiryTS:      1800003600,
		EntranceCount: 1,
		User:          model.User{Rights: 2, Token: "tok-2"},
		Characters:    []model.Character{{ID: 9, Name: "Solo"}},
	}

	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, func(w http.ResponseWriter, r *http.Request) {
		calls++
		sess := first
		if calls > 1 {
			sess = second
		}
		_ = json.NewEncoder(w).Encode(sess)
	})

	eng, _ := newTestEngine(t, mux)
	require.NoError(t, eng.Login("hunter", "pw"))
	eng.Logout()
	require.NoError(t, eng.Login("hunter", "pw"))

	require.Equal(t, second, *eng.Session())
}

func TestLoginFailureKeepsState(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid username or password"))
	})

	eng, _ := newTestEngine(t, mux)
	err := eng.Login("hunter", "wrong")

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "invalid username or password", reqErr.Message)
	require.Equal(t, StateLogin, eng.State())
	require.Empty(t, eng.Session().Characters)
	require.Equal(t, "invalid username or password", eng.LastError())
}

func TestFailedReloginKeepsSession(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("invalid username or password"))
			return
		}
		_ = json.NewEncoder(w).Encode(testSession())
	})

	eng, _ := newTestEngine(t, mux)
	require.NoError(t, eng.Login("hunter", "pw"))
	eng.Logout()

	require.Error(t, eng.Login("hunter", "wrong"))
	require.Equal(t, StateLogin, eng.State())
	require.Len(t, eng.Session().Characters, 3, "failed login must not touch the session")
}

func TestRegisterSignsIn(t *testing.T) {
	fresh := model.Session{
		CurrentTS:     1700000000,
		ExpiryTS:      1700003600,
		EntranceCount: 1,
		User:          model.User{Rights: 2, Token: "tok-new"},
	}
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathRegister, serveSession(t, fresh))

	eng, _ := newTestEngine(t, mux)
	require.NoError(t, eng.Register("newbie", "pw"))
	require.Equal(t, StateCharacter, eng.State())
	require.Empty(t, eng.Session().Characters)
	require.Equal(t, uint32(1), eng.Session().EntranceCount)
}

func TestCreateCharacterStartsGame(t *testing.T) {
	sess := testSession()
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, serveSession(t, sess))
	mux.HandleFunc(protocol.PathCharacterCreate, func(w http.ResponseWriter, r *http.Request) {
		var req protocol.CreateCharacterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode create request: %v", err)
		}
		if req.Token != "tok-1" {
			t.Errorf("token = %q, want tok-1", req.Token)
		}
		_ = json.NewEncoder(w).Encode(model.Character{ID: 4, IsNew: true})
	})

	eng, rt := newTestEngine(t, mux)
	require.NoError(t, eng.Login("hunter", "pw"))
	require.NoError(t, eng.CreateCharacter())

	require.Len(t, eng.Session().Characters, 4)
	require.Len(t, rt.configs, 1)

	cfg := rt.configs[0]
	require.Equal(t, uint32(4), cfg.CharID)
	require.True(t, cfg.CharNew)
	require.Equal(t, []uint32{1, 2, 3, 4}, cfg.CharIDs)
	require.Equal(t, "hunter", cfg.UserName)
	require.Equal(t, "pw", cfg.UserPassword)
	require.Equal(t, "tok-1", cfg.UserToken)
	require.Equal(t, "C:/Games/MHF", cfg.Folder)
}

func TestCreateCharacterLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, serveSession(t, testSession()))
	mux.HandleFunc(protocol.PathCharacterCreate, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("character limit reached"))
	})

	eng, rt := newTestEngine(t, mux)
	require.NoError(t, eng.Login("hunter", "pw"))

	err := eng.CreateCharacter()
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, "character limit reached", eng.LastError())
	require.Len(t, eng.Session().Characters, 3, "failed create must not touch the session")
	require.Empty(t, rt.configs)
}

func TestDeleteCharacter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, serveSession(t, testSession()))
	mux.HandleFunc(protocol.PathCharacterDelete, func(w http.ResponseWriter, r *http.Request) {
		var req protocol.DeleteCharacterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode delete request: %v", err)
		}
		if req.Token != "tok-1" {
			t.Errorf("token = %q, want tok-1", req.Token)
		}
		_, _ = w.Write([]byte("{}"))
	})

	eng, _ := newTestEngine(t, mux)
	require.NoError(t, eng.Login("hunter", "pw"))

	require.NoError(t, eng.DeleteCharacter(2))
	require.Equal(t, []uint32{1, 3}, eng.Session().CharacterIDs())

	// The server treats unknown ids as already deleted.
	require.NoError(t, eng.DeleteCharacter(99))
	require.Equal(t, []uint32{1, 3}, eng.Session().CharacterIDs())
}

func TestDeleteCharacterFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, serveSession(t, testSession()))
	mux.HandleFunc(protocol.PathCharacterDelete, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("character does not belong to this account"))
	})

	eng, _ := newTestEngine(t, mux)
	require.NoError(t, eng.Login("hunter", "pw"))

	require.Error(t, eng.DeleteCharacter(2))
	require.Equal(t, []uint32{1, 2, 3}, eng.Session().CharacterIDs())
	require.Equal(t, "character does not belong to this account", eng.LastError())
}

func TestStartCharacterRunsRuntime(t *testing.T) {
	sess := testSession()
	sess.MezFes = &model.MezFes{
		ID:           500,
		Start:        1700000000,
		End:          1700600000,
		SoloTickets:  5,
		GroupTickets: 2,
		Stalls:       []uint32{1, 2},
	}
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, serveSession(t, sess))

	eng, rt := newTestEngine(t, mux)
	require.NoError(t, eng.Login("hunter", "pw"))
	require.NoError(t, eng.StartCharacter(2))

	require.Len(t, rt.configs, 1)
	cfg := rt.configs[0]
	require.Equal(t, uint32(2), cfg.CharID)
	require.Equal(t, "Kirin", cfg.CharName)
	require.NotNil(t, cfg.MezEventID)
	require.Equal(t, uint32(500), *cfg.MezEventID)
	require.Equal(t, []mhf.Stall{mhf.StallPointExchange, mhf.StallTokotokoPartnya}, cfg.MezStalls)

	require.Error(t, eng.StartCharacter(99))
	require.Len(t, rt.configs, 1)
}

func TestStartCharacterUnknownStall(t *testing.T) {
	sess := testSession()
	sess.MezFes = &model.MezFes{ID: 500, Stalls: []uint32{77}}
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, serveSession(t, sess))

	eng, rt := newTestEngine(t, mux)
	require.NoError(t, eng.Login("hunter", "pw"))

	err := eng.StartCharacter(1)
	require.ErrorIs(t, err, mhf.ErrUnknownStall)
	require.Empty(t, rt.configs)
}

func TestStartCharacterRuntimeError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, serveSession(t, testSession()))

	eng, rt := newTestEngine(t, mux)
	rt.err = errors.New("loader not found")
	require.NoError(t, eng.Login("hunter", "pw"))

	err := eng.StartCharacter(1)
	require.ErrorContains(t, err, "loader not found")

	var reqErr *RequestError
	require.False(t, errors.As(err, &reqErr), "runtime failures are not retryable request errors")
}

func TestLogoutKeepsSessionData(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, serveSession(t, testSession()))
	mux.HandleFunc(protocol.PathCharacterDelete, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("invalid or expired token"))
	})

	eng, _ := newTestEngine(t, mux)
	require.NoError(t, eng.Login("hunter", "pw"))
	require.Error(t, eng.DeleteCharacter(1))
	require.NotEmpty(t, eng.LastError())

	eng.Logout()
	require.Equal(t, StateLogin, eng.State())
	require.Empty(t, eng.LastError())
	require.Len(t, eng.Session().Characters, 3)
}

func TestCharacterOpsRequireSignIn(t *testing.T) {
	eng, rt := newTestEngine(t, http.NewServeMux())

	require.Error(t, eng.CreateCharacter())
	require.Error(t, eng.DeleteCharacter(1))
	require.Error(t, eng.StartCharacter(1))
	require.Empty(t, rt.configs)
}
