package mockserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/2beens/chizen/internal/chizen"
	"github.com/2beens/chizen/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const mockAudioBaseURL = "https://mock-audio-url.com/voice/"

type MiscHandler struct {
	store *Store
	now   func() time.Time
}

func NewMiscHandler(store *Store, now func() time.Time) *MiscHandler {
	return &MiscHandler{
		store: store,
		now:   now,
	}
}

func (h *MiscHandler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.HandleHealth).Methods("GET", "OPTIONS").Name("health")
	r.HandleFunc("/api/newsletter/subscribe", h.HandleSubscribe).Methods("POST", "OPTIONS").Name("newsletter-subscribe")
	r.HandleFunc("/api/newsletter/unsubscribe", h.HandleUnsubscribe).Methods("POST", "OPTIONS").Name("newsletter-unsubscribe")
	r.HandleFunc("/api/voice/generate", h.HandleVoice).Methods("POST", "OPTIONS").Name("voice-generate")
}

func (h *MiscHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, chizen.Health{
		Status:    "healthy",
		Timestamp: h.now(),
	})
}

func (h *MiscHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req chizen.NewsletterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		pkg.WriteErrorDetail(w, http.StatusUnprocessableEntity, "Email is required")
		return
	}

	if !h.store.Subscribe(req.Email) {
		pkg.WriteJSONResponseOK(w, chizen.Message{Message: "Already subscribed to ChiZen newsletter"})
		return
	}
	log.Infof("newsletter subscription: %s", req.Email)
	pkg.WriteJSONResponseOK(w, chizen.Message{Message: "Successfully subscribed to ChiZen newsletter!"})
}

func (h *MiscHandler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req chizen.NewsletterRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if !h.store.Unsubscribe(req.Email) {
		pkg.WriteErrorDetail(w, http.StatusNotFound, "Email not subscribed")
		return
	}
	log.Infof("newsletter unsubscription: %s", req.Email)
	pkg.WriteJSONResponseOK(w, chizen.Message{Message: "Successfully unsubscribed from ChiZen newsletter"})
}

// HandleVoice returns a fake audio url for the text; voice_id is ignored.
func (h *MiscHandler) HandleVoice(w http.ResponseWriter, r *http.Request) {
	var req chizen.VoiceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	pkg.WriteJSONResponseOK(w, chizen.VoiceResponse{
		AudioURL: mockAudioBaseURL + encodeURIComponent(req.Text) + ".mp3",
	})
}
