package healthlogs

import "time"

// Mood define los estados de ánimo del health check.
// @Enum great, good, okay, bad, terrible
type Mood string

const (
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodOkay     Mood = "okay"
	MoodBad      Mood = "bad"
	MoodTerrible Mood = "terrible"
)

// HealthLog es una observación subjetiva de salud registrada por el usuario.
// Campos opcionales van como punteros: nil = no reportado en ese check.
type HealthLog struct {
	ID     string
	UserID string

	RecordedAt time.Time

	Mood      Mood
	PainLevel *int // escala 0-10

	EnergyLevel    string
	SleepQuality   string
	Appetite       string
	Mobility       string
	HeartRate      *int
	Breathing      string
	HydrationLevel string

	MedicationTaken *bool

	Notes string
}
