package mockserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/chizen/internal/chizen"
	"github.com/2beens/chizen/internal/middleware"
	"github.com/2beens/chizen/internal/telemetry/metrics"
	"github.com/2beens/chizen/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type AuthHandler struct {
	store          *Store
	gen            *generator
	tokens         *TokenIssuer
	metricsManager *metrics.Manager
	passwordCost   int
	now            func() time.Time
}

func NewAuthHandler(
	store *Store,
	gen *generator,
	tokens *TokenIssuer,
	metricsManager *metrics.Manager,
	passwordCost int,
	now func() time.Time,
) *AuthHandler {
	return &AuthHandler{
		store:          store,
		gen:            gen,
		tokens:         tokens,
		metricsManager: metricsManager,
		passwordCost:   passwordCost,
		now:            now,
	}
}

func (h *AuthHandler) SetupRoutes(r *mux.Router, loginLimiter func(http.Handler) http.Handler) {
	var login http.Handler = http.HandlerFunc(h.HandleLogin)
	if loginLimiter != nil {
		login = loginLimiter(login)
	}
	r.Handle("/api/auth/login", login).Methods("POST", "OPTIONS").Name("login")
	r.HandleFunc("/api/auth/register", h.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	r.HandleFunc("/api/auth/me", h.HandleMe).Methods("GET", "OPTIONS").Name("me")
	r.HandleFunc("/api/auth/oauth/google", h.HandleGoogleLogin).Methods("POST", "OPTIONS").Name("google-login")
}

// HandleLogin logs in registered users by password; any other credentials
// create a new demo user.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req chizen.LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		pkg.WriteErrorDetail(w, http.StatusUnprocessableEntity, "Email is required")
		return
	}

	user, hash, registered := h.store.Account(req.Email)
	if registered {
		if !pkg.CheckPasswordHash(req.Password, hash) {
			log.Debugf("login: wrong password for [%s]", req.Email)
			pkg.WriteErrorDetail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
	} else {
		user = h.gen.loginUser(req.Email, h.now())
		h.store.AddUser(user)
	}

	h.respondWithToken(w, user)
}

func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req chizen.GoogleLoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		pkg.WriteErrorDetail(w, http.StatusUnprocessableEntity, "Email is required")
		return
	}

	username := req.Name
	if username == "" {
		username = h.gen.username()
	}
	user := newUser(h.gen.id("google-user"), req.Email, username, chizen.FitnessBeginner, h.now())
	user.OAuthProvider = "google"
	user.OAuthID = req.GoogleID
	h.store.AddUser(user)

	h.respondWithToken(w, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, user chizen.User) {
	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Errorf("issue token for [%s]: %s", user.ID, err)
		pkg.WriteErrorDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if h.metricsManager != nil {
		h.metricsManager.CounterLogins.Inc()
	}

	pkg.WriteJSONResponseOK(w, chizen.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req chizen.RegisterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		pkg.WriteErrorDetail(w, http.StatusUnprocessableEntity, "Email and password are required")
		return
	}

	hash, err := pkg.HashPassword(req.Password, h.passwordCost)
	if err != nil {
		log.Errorf("register: hash password: %s", err)
		pkg.WriteErrorDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := newUser(h.gen.id("user"), req.Email, req.Username, req.FitnessLevel, h.now())
	if err := h.store.Register(user, hash); err != nil {
		if errors.Is(err, ErrUserExists) {
			pkg.WriteErrorDetail(w, http.StatusConflict, "Email already registered")
			return
		}
		log.Errorf("register [%s]: %s", req.Email, err)
		pkg.WriteErrorDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, user)
}

// HandleMe returns the token's user, or the first known user for anonymous requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		user, err := h.store.User(identity.UserID)
		if err != nil {
			pkg.WriteErrorDetail(w, http.StatusNotFound, "User not found")
			return
		}
		pkg.WriteJSONResponseOK(w, user)
		return
	}

	user, ok := h.store.FirstUser()
	if !ok {
		user = newUser("demo-user", "demo@chizen.app", "Demo User", chizen.FitnessBeginner, h.now())
		user.StreakData.Current = 3
		user.StreakData.Longest = 7
		user.TotalXP = 225
	}
	pkg.WriteJSONResponseOK(w, user)
}
