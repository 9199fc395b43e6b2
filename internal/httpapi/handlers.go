package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DoyleJ11/slap-backend/internal/engine"
	"github.com/DoyleJ11/slap-backend/internal/hub"
	"github.com/DoyleJ11/slap-backend/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
)

const (
	qrSize        = 256
	defaultRounds = 20
	maxRounds     = 100
)

// CreateLobby opens an empty lobby that players then join over /ws.
func CreateLobby(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb, err := h.Create(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "failed to create lobby")
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			Code string `json:"code"`
		}{Code: lb.Code()})
	}
}

func GetLobby(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lb, err := h.Get(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeLookupError(w, err)
			return
		}
		view, err := lb.View(r.Context())
		if err != nil {
			writeLookupError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view.State.Snapshot())
	}
}

// LobbyQR serves a PNG QR code linking to the join page for the lobby.
func LobbyQR(h *hub.Hub, publicURL string) http.HandlerFunc {
	base := strings.TrimRight(publicURL, "/")
	return func(w http.ResponseWriter, r *http.Request) {
		lb, err := h.Get(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			writeLookupError(w, err)
			return
		}

		png, err := qrcode.Encode(JoinURL(base, lb.Code()), qrcode.Medium, qrSize)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to encode qr code")
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

func JoinURL(base, code string) string {
	return base + "/?code=" + url.QueryEscape(code)
}

func ListRounds(repo store.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultRounds
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				writeError(w, http.StatusBadRequest, "limit must be a positive integer")
				return
			}
			limit = min(n, maxRounds)
		}

		rounds, err := repo.RecentRounds(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to load rounds")
			return
		}
		writeJSON(w, http.StatusOK, rounds)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeLookupError(w http.ResponseWriter, err error) {
	if engine.KindOf(err) == engine.KindNotFound {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if errors.Is(err, hub.ErrHubClosed) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}
