package healthlogs

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"serenity/internal/domain/caregivers"
	"serenity/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, grantsSvc *caregivers.Service) {
	r.Route("/healthlogs", func(hr chi.Router) {
		hr.Post("/", createHealthLogHandler(svc))
		hr.Get("/", listRecentHandler(svc))
	})

	// Vista de cuidador (requiere grant activo con health:read)
	r.Get("/patients/{userID}/healthlogs", listPatientHealthLogsHandler(svc, grantsSvc))
}

type createHealthLogRequest struct {
	Mood            string `json:"mood" enums:"great,good,okay,bad,terrible"`
	PainLevel       *int   `json:"pain_level"`
	EnergyLevel     string `json:"energy_level"`
	SleepQuality    string `json:"sleep_quality"`
	Appetite        string `json:"appetite"`
	Mobility        string `json:"mobility"`
	HeartRate       *int   `json:"heart_rate"`
	Breathing       string `json:"breathing"`
	HydrationLevel  string `json:"hydration_level"`
	MedicationTaken *bool  `json:"medication_taken"`
	Notes           string `json:"notes"`
}

type healthLogResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	RecordedAt      time.Time `json:"recorded_at"`
	Mood            Mood      `json:"mood"`
	PainLevel       *int      `json:"pain_level,omitempty"`
	EnergyLevel     string    `json:"energy_level,omitempty"`
	SleepQuality    string    `json:"sleep_quality,omitempty"`
	Appetite        string    `json:"appetite,omitempty"`
	Mobility        string    `json:"mobility,omitempty"`
	HeartRate       *int      `json:"heart_rate,omitempty"`
	Breathing       string    `json:"breathing,omitempty"`
	HydrationLevel  string    `json:"hydration_level,omitempty"`
	MedicationTaken *bool     `json:"medication_taken,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// createHealthLogHandler godoc
// @Summary Registrar health check
// @Description Guarda una observación subjetiva de salud del usuario autenticado.
// @Tags healthlogs
// @Accept json
// @Produce json
// @Param payload body createHealthLogRequest true "Observación"
// @Success 201 {object} healthLogResponse
// @Failure 400 {string} string "invalid json / mood desconocido / pain_level fuera de 0-10"
// @Failure 401 {string} string "unauthorized"
// @Router /healthlogs [post]
func createHealthLogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createHealthLogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		l, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Mood:            req.Mood,
			PainLevel:       req.PainLevel,
			EnergyLevel:     req.EnergyLevel,
			SleepQuality:    req.SleepQuality,
			Appetite:        req.Appetite,
			Mobility:        req.Mobility,
			HeartRate:       req.HeartRate,
			Breathing:       req.Breathing,
			HydrationLevel:  req.HydrationLevel,
			MedicationTaken: req.MedicationTaken,
			Notes:           req.Notes,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toHealthLogResponse(l))
	}
}

func listRecentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		limit, badLimit := parseLimit(r.URL.Query().Get("limit"))
		if badLimit {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}

		items, err := svc.Recent(r.Context(), claims.UserID, limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toHealthLogResponses(items))
	}
}

func listPatientHealthLogsHandler(svc *Service, grantsSvc *caregivers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "userID")
		if patientID != claims.UserID {
			g, err := grantsSvc.GetActiveGrant(r.Context(), patientID, claims.UserID)
			if err != nil || !caregivers.HasScope(g, caregivers.ScopeHealthRead) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		limit, badLimit := parseLimit(r.URL.Query().Get("limit"))
		if badLimit {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}

		items, err := svc.Recent(r.Context(), patientID, limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toHealthLogResponses(items))
	}
}

func parseLimit(raw string) (limit int, bad bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, true
	}
	return n, false
}

func toHealthLogResponse(l HealthLog) healthLogResponse {
	return healthLogResponse{
		ID:              l.ID,
		UserID:          l.UserID,
		RecordedAt:      l.RecordedAt,
		Mood:            l.Mood,
		PainLevel:       l.PainLevel,
		EnergyLevel:     l.EnergyLevel,
		SleepQuality:    l.SleepQuality,
		Appetite:        l.Appetite,
		Mobility:        l.Mobility,
		HeartRate:       l.HeartRate,
		Breathing:       l.Breathing,
		HydrationLevel:  l.HydrationLevel,
		MedicationTaken: l.MedicationTaken,
		Notes:           l.Notes,
	}
}

func toHealthLogResponses(items []HealthLog) []healthLogResponse {
	out := make([]healthLogResponse, 0, len(items))
	for _, l := range items {
		out = append(out, toHealthLogResponse(l))
	}
	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
