package signserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mhfrontier/launcher/pkg/crypto"
)

// Run starts the HTTP listener and blocks until ctx is cancelled or the
// listener fails. Shutdown drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("signserver: missing store dependency")
	}
	defer func() { _ = s.store.Close() }()

	if s.tokens == nil {
		secret, err := crypto.GenerateSecret(32)
		if err != nil {
			return fmt.Errorf("signserver: generate token secret: %w", err)
		}
		s.tokens = NewTokenIssuer(secret, s.cfg.TokenTTL)
		slog.Warn("no token secret configured, sessions will not survive a restart")
	}

	if s.cfg.EventFile != "" {
		ev, err := LoadEvent(s.cfg.EventFile)
		if err != nil {
			return err
		}
		s.event = ev
		slog.Info("event config loaded",
			"notifications", len(ev.Notifications),
			"mezfes", ev.MezFes != nil,
		)
	}

	s.httpSrv = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.metrics.StartPeriodicLog(60*time.Second, ctx.Done())

	errCh := make(chan error, 1)
	go func() {
		slog.Info("sign server listening", "addr", s.cfg.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("signserver: serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("signserver: shutdown: %w", err)
	}
	return nil
}
