package doselogs

import "time"

// DoseLog es una toma concreta, agendada o completada, de un medicamento.
// Nace "scheduled" (taken=false) vía materialización y solo transiciona a
// "taken"; no hay vuelta atrás ni expiración automática.
type DoseLog struct {
	ID           string
	MedicationID string

	ScheduledAt time.Time

	Taken   bool
	TakenAt *time.Time

	Notes string
}
