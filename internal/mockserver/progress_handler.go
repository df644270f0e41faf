package mockserver

import (
	"net/http"

	"github.com/2beens/chizen/internal/chizen"
	"github.com/2beens/chizen/internal/middleware"
	"github.com/2beens/chizen/pkg"

	"github.com/gorilla/mux"
)

const defaultLeaderboardLimit = 50

type ProgressHandler struct {
	store *Store
	gen   *generator
}

func NewProgressHandler(store *Store, gen *generator) *ProgressHandler {
	return &ProgressHandler{
		store: store,
		gen:   gen,
	}
}

func (h *ProgressHandler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/progress", h.HandleProgress).Methods("GET", "OPTIONS").Name("progress")
	r.HandleFunc("/api/leaderboard", h.HandleLeaderboard).Methods("GET", "OPTIONS").Name("leaderboard")
}

// HandleProgress is random, except for what is known about an authenticated user.
func (h *ProgressHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	progress := h.gen.progress()
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		if user, err := h.store.User(identity.UserID); err == nil {
			progress.CurrentStreak = user.StreakData.Current
			progress.LongestStreak = user.StreakData.Longest
			progress.TotalXP = user.TotalXP
		}
	}
	pkg.WriteJSONResponseOK(w, progress)
}

func (h *ProgressHandler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultLeaderboardLimit)
	pkg.WriteJSONResponseOK(w, chizen.Leaderboard{
		Users: h.store.Leaderboard(limit),
	})
}
