package contacts

import "time"

// Contact es un contacto de emergencia del usuario.
// A lo sumo uno por usuario puede ser primario; crear un nuevo primario
// degrada al anterior.
type Contact struct {
	ID     string
	UserID string

	Name         string
	Relationship string
	Phone        string
	Email        string

	IsPrimary bool

	CreatedAt time.Time
}
