package medications

import "time"

// DefaultWindowDays es la ventana de materialización de logs al crear
// un medicamento.
const DefaultWindowDays = 7

// ScheduledTimes expande la regla de recurrencia en los timestamps de toma
// que deberían existir como dose logs dentro de la ventana
// [windowStart, windowStart+windowDays). Puro: el store es quien decide
// qué entradas son nuevas (unicidad por medicamento+timestamp).
func ScheduledTimes(m Medication, windowStart time.Time, windowDays int) []time.Time {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	windowStart = DateOf(windowStart)
	out := make([]time.Time, 0, windowDays)

	for i := 0; i < windowDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		if !m.DueOn(day) {
			continue
		}
		out = append(out, m.TimeOfDay.At(day))
	}

	return out
}
