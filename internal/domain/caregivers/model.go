package caregivers

import "time"

type Scope string

const (
	ScopeMedsRead     Scope = "meds:read"
	ScopeLogsRead     Scope = "logs:read"
	ScopeLogsMark     Scope = "logs:mark"
	ScopeHealthRead   Scope = "health:read"
	ScopeContactsRead Scope = "contacts:read"
)

type Status string

const (
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Grant representa el acceso que un paciente le comparte a un cuidador
// sobre sus datos de salud (medicamentos, dosis, health checks, contactos).
type Grant struct {
	ID string

	PatientUserID   string // quien comparte sus datos
	CaregiverUserID string // cuidador delegado

	Scopes []Scope
	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
