package mockserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/2beens/chizen/internal/chizen"
	"github.com/2beens/chizen/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const defaultUsersLimit = 50

var topCategories = []chizen.CategoryCount{
	{Category: "Balance & Flexibility", Count: 45},
	{Category: "Strength & Mobility", Count: 32},
	{Category: "Relaxation & Calm", Count: 28},
}

type AdminHandler struct {
	store *Store
	gen   *generator
	now   func() time.Time
}

func NewAdminHandler(store *Store, gen *generator, now func() time.Time) *AdminHandler {
	return &AdminHandler{
		store: store,
		gen:   gen,
		now:   now,
	}
}

func (h *AdminHandler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/admin/users", h.HandleList).Methods("GET", "OPTIONS").Name("admin-users")
	r.HandleFunc("/api/admin/users/{id}", h.HandleGet).Methods("GET", "OPTIONS").Name("admin-user")
	r.HandleFunc("/api/admin/users/{id}", h.HandleUpdate).Methods("PUT", "OPTIONS").Name("admin-user-update")
	r.HandleFunc("/api/admin/users/{id}", h.HandleDelete).Methods("DELETE", "OPTIONS").Name("admin-user-delete")
	r.HandleFunc("/api/admin/analytics", h.HandleAnalytics).Methods("GET", "OPTIONS").Name("admin-analytics")
}

func (h *AdminHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultUsersLimit)

	users, total := h.store.Users(page, limit)
	pkg.WriteJSONResponseOK(w, chizen.UsersPage{
		Users: users,
		Total: total,
		Page:  page,
		Pages: pages(total, limit),
	})
}

func (h *AdminHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.User(mux.Vars(r)["id"])
	if err != nil {
		h.writeStoreErr(w, err)
		return
	}
	pkg.WriteJSONResponseOK(w, user)
}

func (h *AdminHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var update chizen.UserUpdate
	if !decodeJSONBody(w, r, &update) {
		return
	}
	user, err := h.store.UpdateUser(mux.Vars(r)["id"], update)
	if err != nil {
		h.writeStoreErr(w, err)
		return
	}
	pkg.WriteJSONResponseOK(w, user)
}

func (h *AdminHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.store.DeleteUser(id); err != nil {
		h.writeStoreErr(w, err)
		return
	}
	log.Debugf("admin: user [%s] deleted", id)
	pkg.WriteJSONResponseOK(w, chizen.Message{Message: "User deleted successfully"})
}

func (h *AdminHandler) HandleAnalytics(w http.ResponseWriter, _ *http.Request) {
	totalUsers := h.store.UserCount()
	pkg.WriteJSONResponseOK(w, chizen.Analytics{
		TotalUsers:     totalUsers,
		ActiveUsers:    totalUsers * 8 / 10,
		TotalRoutines:  h.store.RoutineCount(),
		CompletionRate: 0.75,
		AvgStreak:      4.2,
		TopCategories:  topCategories,
		DailySignups:   h.gen.dailySignups(h.now()),
		UserRetention: chizen.UserRetention{
			Day1:  0.85,
			Day7:  0.62,
			Day30: 0.45,
		},
	})
}

func (h *AdminHandler) writeStoreErr(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUserNotFound) {
		pkg.WriteErrorDetail(w, http.StatusNotFound, "User not found")
		return
	}
	log.Errorf("admin: %s", err)
	pkg.WriteErrorDetail(w, http.StatusInternalServerError, "Internal server error")
}
