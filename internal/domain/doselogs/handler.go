package doselogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"serenity/internal/domain/caregivers"
	"serenity/internal/domain/medications"
	"serenity/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medications.Service, grantsSvc *caregivers.Service) {
	// Dueño del medicamento
	r.Route("/medications/{medicationID}/logs", func(lr chi.Router) {
		lr.Get("/", listLogsHandler(svc, medsSvc, grantsSvc, false))
		lr.Post("/taken", markTakenHandler(svc, medsSvc, grantsSvc, false))
	})

	// Vista de cuidador: logs:read para listar, logs:mark para marcar
	r.Get("/patients/{userID}/medications/{medicationID}/logs", listLogsHandler(svc, medsSvc, grantsSvc, true))
	r.Post("/patients/{userID}/medications/{medicationID}/logs/taken", markTakenHandler(svc, medsSvc, grantsSvc, true))
}

type markTakenRequest struct {
	TakenAt string `json:"taken_at"` // RFC3339 opcional; vacío = ahora
	Notes   string `json:"notes"`
}

type doseLogResponse struct {
	ID           string     `json:"id"`
	MedicationID string     `json:"medication_id"`
	ScheduledAt  time.Time  `json:"scheduled_at"`
	Taken        bool       `json:"taken"`
	TakenAt      *time.Time `json:"taken_at,omitempty"`
	Notes        string     `json:"notes"`
}

// authorizeMedication resuelve el medicamento y decide acceso:
// - dueño: siempre
// - cuidador (ruta /patients): grant activo con el scope requerido
func authorizeMedication(r *http.Request, medsSvc *medications.Service, grantsSvc *caregivers.Service, asCaregiver bool, scope caregivers.Scope) (medications.Medication, int) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" {
		return medications.Medication{}, http.StatusUnauthorized
	}

	m, err := medsSvc.GetByID(r.Context(), chi.URLParam(r, "medicationID"))
	if errors.Is(err, medications.ErrNotFound) || errors.Is(err, medications.ErrInvalidInput) {
		return medications.Medication{}, http.StatusNotFound
	}
	if err != nil {
		return medications.Medication{}, http.StatusInternalServerError
	}

	if asCaregiver {
		patientID := chi.URLParam(r, "userID")
		if m.OwnerUserID != patientID {
			return medications.Medication{}, http.StatusNotFound
		}
		if patientID == claims.UserID {
			return m, 0
		}
		g, err := grantsSvc.GetActiveGrant(r.Context(), patientID, claims.UserID)
		if err != nil || !caregivers.HasScope(g, scope) {
			return medications.Medication{}, http.StatusForbidden
		}
		return m, 0
	}

	if m.OwnerUserID != claims.UserID {
		return medications.Medication{}, http.StatusNotFound
	}
	return m, 0
}

// listLogsHandler godoc
// @Summary Listar dose logs de un medicamento
// @Description Devuelve los logs ordenados por scheduled_at descendente. ?limit acota la cantidad.
// @Tags doselogs
// @Produce json
// @Param medicationID path string true "ID del medicamento"
// @Param limit query int false "Máximo de logs a devolver"
// @Success 200 {array} doseLogResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID}/logs [get]
func listLogsHandler(svc *Service, medsSvc *medications.Service, grantsSvc *caregivers.Service, asCaregiver bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, errStatus := authorizeMedication(r, medsSvc, grantsSvc, asCaregiver, caregivers.ScopeLogsRead)
		if errStatus != 0 {
			http.Error(w, http.StatusText(errStatus), errStatus)
			return
		}

		limit := 0
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		items, err := svc.ListByMedication(r.Context(), m.ID, limit)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]doseLogResponse, 0, len(items))
		for _, l := range items {
			out = append(out, toDoseLogResponse(l))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// markTakenHandler godoc
// @Summary Marcar dosis tomada
// @Description Marca la dosis pendiente más antigua con scheduled_at <= taken_at (default: ahora). Repetir la llamada avanza a la siguiente pendiente; nunca des-marca una tomada.
// @Tags doselogs
// @Accept json
// @Produce json
// @Param medicationID path string true "ID del medicamento"
// @Param payload body markTakenRequest false "taken_at RFC3339 opcional y notas"
// @Success 200 {object} doseLogResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found / no pending dose"
// @Router /medications/{medicationID}/logs/taken [post]
func markTakenHandler(svc *Service, medsSvc *medications.Service, grantsSvc *caregivers.Service, asCaregiver bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, errStatus := authorizeMedication(r, medsSvc, grantsSvc, asCaregiver, caregivers.ScopeLogsMark)
		if errStatus != 0 {
			http.Error(w, http.StatusText(errStatus), errStatus)
			return
		}

		var req markTakenRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "invalid json", http.StatusBadRequest)
				return
			}
		}

		var at time.Time
		if strings.TrimSpace(req.TakenAt) != "" {
			t, err := time.Parse(time.RFC3339, req.TakenAt)
			if err != nil {
				http.Error(w, "taken_at must be RFC3339", http.StatusBadRequest)
				return
			}
			at = t
		}

		l, err := svc.MarkTaken(r.Context(), m.ID, at, req.Notes)
		if err != nil {
			switch err {
			case ErrNoPendingLog:
				http.Error(w, "no pending dose", http.StatusNotFound)
			case ErrInvalidInput:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toDoseLogResponse(l))
	}
}

func toDoseLogResponse(l DoseLog) doseLogResponse {
	return doseLogResponse{
		ID:           l.ID,
		MedicationID: l.MedicationID,
		ScheduledAt:  l.ScheduledAt,
		Taken:        l.Taken,
		TakenAt:      l.TakenAt,
		Notes:        l.Notes,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
