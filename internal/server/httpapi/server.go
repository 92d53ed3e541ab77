// Package httpapi exposes the vault over HTTP/JSON: account sign-up and
// sign-in, the three vault resources, and account erasure. Handlers stay
// thin; all business rules live in the services package.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mkravets/vaultapi/internal/logging"
	"github.com/mkravets/vaultapi/internal/server/models"
	"github.com/mkravets/vaultapi/internal/server/services"
)

type Server struct {
	address     string
	logger      logging.Logger
	users       *services.UserService
	cards       *services.VaultService[models.Card, services.CardView]
	credentials *services.VaultService[models.Credential, services.CredentialView]
	notes       *services.VaultService[models.Note, services.NoteView]
	erase       *services.EraseService
	jwtSecret   []byte
	mux         *http.ServeMux
}

func NewServer(
	address string,
	l logging.Logger,
	users *services.UserService,
	cards *services.VaultService[models.Card, services.CardView],
	credentials *services.VaultService[models.Credential, services.CredentialView],
	notes *services.VaultService[models.Note, services.NoteView],
	erase *services.EraseService,
	secretKey string,
) *Server {
	s := &Server{
		address:     address,
		logger:      l.With("module", "http_server"),
		users:       users,
		cards:       cards,
		credentials: credentials,
		notes:       notes,
		erase:       erase,
		jwtSecret:   []byte(secretKey),
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /users/sign-up", s.handleSignUp)
	s.mux.HandleFunc("POST /users/sign-in", s.handleSignIn)

	registerResource(s, "/cards", s.cards, validateCard)
	registerResource(s, "/credentials", s.credentials, validateCredential)
	registerResource(s, "/notes", s.notes, validateNote)

	s.mux.Handle("DELETE /erase", s.requireAuth(http.HandlerFunc(s.handleErase)))
}

// Handler returns the root handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.mux}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
