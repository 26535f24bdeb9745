package tips

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes publica el tip del día. Público: también se muestra en el
// dashboard sin sesión.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/tips/today", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"tip": svc.Today()})
	})
}
