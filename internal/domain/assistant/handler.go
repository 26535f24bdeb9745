package assistant

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes publica el chat. No exige sesión: el asistente también
// responde en la vista pública, igual que el original.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/assistant/chat", chatHandler(svc))
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response    string `json:"response"`
	IsEmergency bool   `json:"is_emergency"`
}

// chatHandler godoc
// @Summary Conversar con el asistente
// @Description Despacha el mensaje por reglas locales (respuestas rápidas, emergencias, condiciones comunes) y cae al generador LLM si nada matchea.
// @Tags assistant
// @Accept json
// @Produce json
// @Param payload body chatRequest true "Mensaje del usuario"
// @Success 200 {object} chatResponse
// @Failure 400 {string} string "invalid json"
// @Router /assistant/chat [post]
func chatHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		reply := svc.Reply(r.Context(), req.Message)

		writeJSON(w, http.StatusOK, chatResponse{
			Response:    reply.Text,
			IsEmergency: reply.Emergency,
		})
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
