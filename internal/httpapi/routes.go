package httpapi

import (
	"net/http"

	"github.com/DoyleJ11/slap-backend/internal/hub"
	"github.com/DoyleJ11/slap-backend/internal/store"
	"github.com/DoyleJ11/slap-backend/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Deps struct {
	Hub    *hub.Hub
	Rounds store.Repository
	Logger *zap.Logger
	// PublicURL is the base URL players open to join; it is encoded into QR codes.
	PublicURL string
	WS        ws.Options
}

func SetupRoutes(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.WS.Logger == nil {
		d.WS.Logger = d.Logger
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(d.Logger))
	r.Use(middleware.Recoverer)

	// Public routes
	r.Post("/lobbies", CreateLobby(d.Hub))
	r.Route("/lobbies/{code}", func(r chi.Router) {
		r.Get("/", GetLobby(d.Hub))
		r.Get("/qr", LobbyQR(d.Hub, d.PublicURL))
	})
	r.Get("/rounds", ListRounds(d.Rounds))
	r.Get("/healthz", Healthz)
	r.Get("/ws", ws.Handler(d.Hub, d.WS))
	return r
}
