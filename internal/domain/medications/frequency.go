package medications

import (
	"fmt"
	"strings"
	"time"
)

// Frequency define las frecuencias de toma soportadas.
// @Enum daily, twice_daily, three_times_daily, four_times_daily, weekly, biweekly, monthly
type Frequency string

const (
	FrequencyDaily           Frequency = "daily"
	FrequencyTwiceDaily      Frequency = "twice_daily"
	FrequencyThreeTimesDaily Frequency = "three_times_daily"
	FrequencyFourTimesDaily  Frequency = "four_times_daily"
	FrequencyWeekly          Frequency = "weekly"
	FrequencyBiweekly        Frequency = "biweekly"
	FrequencyMonthly         Frequency = "monthly"
)

// ParseFrequency valida el código contra el enum cerrado.
// Un código desconocido es error de validación al crear el medicamento;
// el evaluador (DueOn) igual se mantiene total y responde false.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FrequencyDaily, FrequencyTwiceDaily, FrequencyThreeTimesDaily,
		FrequencyFourTimesDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return f, nil
	}
	return "", fmt.Errorf("unknown frequency %q", s)
}

// DosesPerDay expone el multiplicador nominal de la frecuencia.
// Hoy el materializador genera un solo log por día igualmente (una sola
// hora de toma por medicamento); el multiplicador queda disponible para
// cuando el modelo soporte varias horas.
func (f Frequency) DosesPerDay() int {
	switch f {
	case FrequencyTwiceDaily:
		return 2
	case FrequencyThreeTimesDaily:
		return 3
	case FrequencyFourTimesDaily:
		return 4
	default:
		return 1
	}
}

// DueOn evalúa la regla de recurrencia para una fecha candidata.
// start y day se normalizan a fecha calendario; end (si existe) es inclusive.
// Puro y determinista: sin reloj, sin side effects.
func (f Frequency) DueOn(start time.Time, end *time.Time, day time.Time) bool {
	start = DateOf(start)
	day = DateOf(day)

	if day.Before(start) {
		return false
	}
	if end != nil && day.After(DateOf(*end)) {
		return false
	}

	switch f {
	case FrequencyDaily, FrequencyTwiceDaily, FrequencyThreeTimesDaily, FrequencyFourTimesDaily:
		return true
	case FrequencyWeekly:
		return daysBetween(start, day)%7 == 0
	case FrequencyBiweekly:
		return daysBetween(start, day)%14 == 0
	case FrequencyMonthly:
		// Para meses más cortos que el día de inicio, la toma cae en el
		// último día del mes (inicio el 31 => 29/feb en bisiesto, 30/abr, etc).
		want := start.Day()
		if last := lastDayOfMonth(day); want > last {
			want = last
		}
		return day.Day() == want
	default:
		return false
	}
}

// daysBetween asume fechas normalizadas a medianoche UTC.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

func lastDayOfMonth(day time.Time) int {
	// Día 0 del mes siguiente = último día del mes actual.
	return time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
