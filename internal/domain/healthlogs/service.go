package healthlogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// DefaultRecentLimit es el límite por defecto para el listado reciente
// (el dashboard muestra los últimos checks, no el historial completo).
const DefaultRecentLimit = 10

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Mood            string
	PainLevel       *int
	EnergyLevel     string
	SleepQuality    string
	Appetite        string
	Mobility        string
	HeartRate       *int
	Breathing       string
	HydrationLevel  string
	MedicationTaken *bool
	Notes           string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (HealthLog, error) {
	if strings.TrimSpace(userID) == "" {
		return HealthLog{}, ErrInvalidInput
	}

	mood, err := parseMood(in.Mood)
	if err != nil {
		return HealthLog{}, ErrInvalidInput
	}

	if in.PainLevel != nil && (*in.PainLevel < 0 || *in.PainLevel > 10) {
		return HealthLog{}, ErrInvalidInput
	}
	if in.HeartRate != nil && *in.HeartRate <= 0 {
		return HealthLog{}, ErrInvalidInput
	}

	l := HealthLog{
		ID:              uuid.NewString(),
		UserID:          userID,
		RecordedAt:      s.now(),
		Mood:            mood,
		PainLevel:       in.PainLevel,
		EnergyLevel:     strings.TrimSpace(in.EnergyLevel),
		SleepQuality:    strings.TrimSpace(in.SleepQuality),
		Appetite:        strings.TrimSpace(in.Appetite),
		Mobility:        strings.TrimSpace(in.Mobility),
		HeartRate:       in.HeartRate,
		Breathing:       strings.TrimSpace(in.Breathing),
		HydrationLevel:  strings.TrimSpace(in.HydrationLevel),
		MedicationTaken: in.MedicationTaken,
		Notes:           strings.TrimSpace(in.Notes),
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return HealthLog{}, err
	}
	return l, nil
}

func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]HealthLog, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidInput
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func parseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MoodGreat, MoodGood, MoodOkay, MoodBad, MoodTerrible:
		return m, nil
	}
	return "", errors.New("unknown mood")
}
