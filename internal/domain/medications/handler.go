package medications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"serenity/internal/domain/caregivers"
	"serenity/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// MaterializeHook encadena la materialización de dose logs al crear un
// medicamento sin que este paquete importe doselogs (rompe ciclos).
type MaterializeHook func(ctx context.Context, m Medication) error

func RegisterRoutes(r chi.Router, svc *Service, grantsSvc *caregivers.Service, materialize MaterializeHook) {
	// Medicamentos del usuario autenticado
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc, materialize))
		mr.Get("/", listMedicationsHandler(svc))
		mr.Get("/today", listDueTodayHandler(svc))

		mr.Get("/{medicationID}", getMedicationHandler(svc))
		mr.Delete("/{medicationID}", deleteMedicationHandler(svc))
	})

	// Vista de cuidador (requiere grant activo con meds:read)
	r.Get("/patients/{userID}/medications", listPatientMedicationsHandler(svc, grantsSvc, false))
	r.Get("/patients/{userID}/medications/today", listPatientMedicationsHandler(svc, grantsSvc, true))
}

// createMedicationRequest es el cuerpo para registrar un medicamento.
type createMedicationRequest struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency" enums:"daily,twice_daily,three_times_daily,four_times_daily,weekly,biweekly,monthly"`
	Time      string `json:"time"`       // HH:MM
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD opcional
	Notes     string `json:"notes"`
}

type medicationResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Dosage      string    `json:"dosage"`
	Frequency   Frequency `json:"frequency"`
	Time        string    `json:"time"`
	StartDate   string    `json:"start_date"`
	EndDate     *string   `json:"end_date,omitempty"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// createMedicationHandler godoc
// @Summary Registrar medicamento
// @Description Crea un medicamento para el usuario autenticado y materializa sus dose logs de la próxima semana. Frecuencia desconocida o end_date anterior a start_date se rechazan con 400.
// @Tags medications
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param payload body createMedicationRequest true "Datos del medicamento"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / invalid schedule"
// @Failure 401 {string} string "unauthorized"
// @Router /medications [post]
func createMedicationHandler(svc *Service, materialize MaterializeHook) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var end *time.Time
		if strings.TrimSpace(req.EndDate) != "" {
			e, err := time.Parse("2006-01-02", req.EndDate)
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = &e
		}

		m, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:      req.Name,
			Dosage:    req.Dosage,
			Frequency: req.Frequency,
			Time:      req.Time,
			StartDate: start,
			EndDate:   end,
			Notes:     req.Notes,
		})
		if err != nil {
			switch err {
			case ErrInvalidInput, ErrInvalidSchedule:
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		if materialize != nil {
			if err := materialize(r.Context(), m); err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m))
	}
}

func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponses(items))
	}
}

// listDueTodayHandler godoc
// @Summary Medicamentos que tocan hoy
// @Description Filtra por schedule, sin consultar el log store: "toca hoy" es propiedad de la recurrencia, exista o no un log marcado.
// @Tags medications
// @Produce json
// @Success 200 {array} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Router /medications/today [get]
func listDueTodayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.DueToday(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponses(items))
	}
}

func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicationID"))
		switch {
		case errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput):
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		case m.OwnerUserID != claims.UserID:
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

// deleteMedicationHandler godoc
// @Summary Borrar medicamento
// @Description Borra el medicamento del usuario y, en cascada, todos sus dose logs.
// @Tags medications
// @Produce json
// @Param medicationID path string true "ID del medicamento"
// @Success 200 {object} medicationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [delete]
func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "medicationID")
		m, err := svc.GetByID(r.Context(), id)
		switch {
		case errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput):
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		case m.OwnerUserID != claims.UserID:
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		deleted, err := svc.Delete(r.Context(), id)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(deleted))
	}
}

func listPatientMedicationsHandler(svc *Service, grantsSvc *caregivers.Service, dueTodayOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "userID")

		// El propio paciente pasa directo; un cuidador necesita grant
		// activo con meds:read.
		if patientID != claims.UserID {
			g, err := grantsSvc.GetActiveGrant(r.Context(), patientID, claims.UserID)
			if err != nil || !caregivers.HasScope(g, caregivers.ScopeMedsRead) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
		}

		var (
			items []Medication
			err   error
		)
		if dueTodayOnly {
			items, err = svc.DueToday(r.Context(), patientID)
		} else {
			items, err = svc.ListByOwner(r.Context(), patientID)
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponses(items))
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	resp := medicationResponse{
		ID:          m.ID,
		OwnerUserID: m.OwnerUserID,
		Name:        m.Name,
		Dosage:      m.Dosage,
		Frequency:   m.Frequency,
		Time:        m.TimeOfDay.String(),
		StartDate:   m.StartDate.Format("2006-01-02"),
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
	}
	if m.EndDate != nil {
		e := m.EndDate.Format("2006-01-02")
		resp.EndDate = &e
	}
	return resp
}

func toMedicationResponses(items []Medication) []medicationResponse {
	out := make([]medicationResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toMedicationResponse(m))
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
