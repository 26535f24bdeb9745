package medications

import (
	"fmt"
	"time"
)

// TimeOfDay es la hora local (hh:mm) a la que corresponde tomar la dosis.
// No lleva zona horaria: se combina con una fecha al materializar logs.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parsea "HH:MM" (24h).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("time must be HH:MM: %w", err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (td TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", td.Hour, td.Minute)
}

// At combina la hora de toma con una fecha calendario (UTC).
func (td TimeOfDay) At(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), td.Hour, td.Minute, 0, 0, time.UTC)
}

// Medication representa un medicamento registrado por un usuario,
// con su regla de recurrencia (frecuencia + rango de fechas).
type Medication struct {
	ID          string
	OwnerUserID string

	Name      string
	Dosage    string
	Frequency Frequency
	TimeOfDay TimeOfDay

	StartDate time.Time  // fecha calendario (medianoche UTC), inclusive
	EndDate   *time.Time // inclusive; nil = sin límite

	Notes string

	CreatedAt time.Time
}

// DueOn responde si el medicamento corresponde tomarlo en la fecha dada.
func (m Medication) DueOn(day time.Time) bool {
	return m.Frequency.DueOn(m.StartDate, m.EndDate, day)
}

// DateOf normaliza un instante a su fecha calendario (medianoche UTC).
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
