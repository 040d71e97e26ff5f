package app

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nergy-se/climate-controller/pkg/api/v1/config"
	"github.com/nergy-se/climate-controller/pkg/state"
	"github.com/nergy-se/climate-controller/pkg/version"
	"github.com/sirupsen/logrus"
)

type status struct {
	Version    version.Info       `json:"version"`
	Last       *state.Observation `json:"last,omitempty"`
	Faults     []string           `json:"faults"`
	LastChange *time.Time         `json:"lastChange,omitempty"`
	Thresholds config.Thresholds  `json:"thresholds"`
}

func (a *App) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/status", a.handleStatus)
	r.Get("/history/{entity}", a.handleHistory)
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	if a.dummy != nil {
		r.Handle("/dummy/climate", a.dummy)
	}
	return r
}

func (a *App) handleStatus(w http.ResponseWriter, r *http.Request) {
	s := status{
		Version:    version.Current,
		Last:       a.Last(),
		Faults:     a.faults.List(),
		Thresholds: a.config.Thresholds,
	}
	a.mutex.RLock()
	if a.thresholds != nil {
		s.Thresholds = *a.thresholds
	}
	a.mutex.RUnlock()
	if a.machine != nil {
		if lc := a.machine.LastChange(); !lc.IsZero() {
			s.LastChange = &lc
		}
	}
	respondJSON(w, http.StatusOK, s)
}

// handleHistory returns recent target or on/off history, 24h unless ?hours= is set.
func (a *App) handleHistory(w http.ResponseWriter, r *http.Request) {
	var entityID string
	switch chi.URLParam(r, "entity") {
	case "target":
		entityID = a.config.Entities.TargetHistory
	case "onoff":
		entityID = a.config.Entities.OnOffHistory
	default:
		respondError(w, http.StatusNotFound, "unknown history")
		return
	}

	hours := 24
	if h := r.URL.Query().Get("hours"); h != "" {
		var err error
		hours, err = strconv.Atoi(h)
		if err != nil || hours <= 0 {
			respondError(w, http.StatusBadRequest, "invalid hours")
			return
		}
	}

	end := a.clock.Now()
	points, err := a.platform.History(r.Context(), entityID, end.Add(-time.Duration(hours)*time.Hour), end)
	if err != nil {
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, points)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.Error(err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
