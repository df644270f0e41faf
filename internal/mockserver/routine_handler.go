package mockserver

import (
	"net/http"
	"time"

	"github.com/2beens/chizen/internal/chizen"
	"github.com/2beens/chizen/internal/middleware"
	"github.com/2beens/chizen/internal/telemetry/metrics"
	"github.com/2beens/chizen/pkg"

	"github.com/gorilla/mux"
)

const defaultHistoryLimit = 20

type RoutineHandler struct {
	store          *Store
	gen            *generator
	today          *todayRoutines
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewRoutineHandler(
	store *Store,
	gen *generator,
	today *todayRoutines,
	metricsManager *metrics.Manager,
	now func() time.Time,
) *RoutineHandler {
	return &RoutineHandler{
		store:          store,
		gen:            gen,
		today:          today,
		metricsManager: metricsManager,
		now:            now,
	}
}

func (h *RoutineHandler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/routine/today", h.HandleToday).Methods("GET", "OPTIONS").Name("routine-today")
	r.HandleFunc("/api/routine/generate", h.HandleGenerate).Methods("POST", "OPTIONS").Name("routine-generate")
	r.HandleFunc("/api/routine/complete", h.HandleComplete).Methods("POST", "OPTIONS").Name("routine-complete")
	r.HandleFunc("/api/routine/history", h.HandleHistory).Methods("GET", "OPTIONS").Name("routine-history")
}

func (h *RoutineHandler) HandleToday(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, h.today.Get(h.now()))
}

func (h *RoutineHandler) HandleGenerate(w http.ResponseWriter, _ *http.Request) {
	routine := h.gen.routine(h.now())
	h.store.AddRoutine(routine)
	if h.metricsManager != nil {
		h.metricsManager.CounterRoutinesGenerated.Inc()
	}
	pkg.WriteJSONResponseOK(w, routine)
}

func (h *RoutineHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	var req chizen.CompleteRoutineRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.RoutineID == "" {
		pkg.WriteErrorDetail(w, http.StatusUnprocessableEntity, "routine_id is required")
		return
	}

	result := h.gen.completion()
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		h.store.AddXP(identity.UserID, result.XPEarned, result.NewStreak, h.now())
	}
	pkg.WriteJSONResponseOK(w, result)
}

func (h *RoutineHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultHistoryLimit)

	routines, total := h.store.Routines(page, limit)
	pkg.WriteJSONResponseOK(w, chizen.RoutineHistory{
		Routines: routines,
		Total:    total,
		Page:     page,
		Pages:    pages(total, limit),
	})
}
