package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/usecase"
)

type Server struct {
	payUC  usecase.PaymentUseCase
	setUC  usecase.SettlementUseCase
	subUC  usecase.SubscriptionUseCase
	auth   *AuthManager
	log    *zerolog.Logger
	server *http.Server
}

func NewServer(
	payUC usecase.PaymentUseCase,
	setUC usecase.SettlementUseCase,
	subUC usecase.SubscriptionUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		payUC: payUC,
		setUC: setUC,
		subUC: subUC,
		auth:  auth,
		log:   logger,
	}
}

// Router assembles the route tree. The IPN endpoint is public by transport
// and authenticated by signature inside the settlement use case; everything
// under the auth group requires a bearer token.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware(TraceID(s.log)), chiMiddleware(RequestLog(s.log)))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/payments/momo/ipn", s.handleIPN)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/payments/link", s.handleCreateLink)
			r.Get("/subscriptions/me", s.handleMySubscription)
		})
	})
	return r
}

func (s *Server) Start(port int) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Int("port", port).Msg("http server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func chiMiddleware(m Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return m(next) }
}

type ctxKey string

const ctxUserID ctxKey = "auth_user_id"

// requireAuth guards the internal API with a bearer token; the subject
// claim carries the caller's user id.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(ctxUserID).(string)
	return v
}
