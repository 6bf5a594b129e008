package model

import "time"

// User represents a row in the usuarios table. The row mirrors the identity
// owned by Firebase: FirebaseUID is the provider's key and PasswordHash is
// informational only, never consulted for authentication decisions.
type User struct {
	ID                 int64
	FirebaseUID        string
	Email              string
	PasswordHash       string
	Nombre             string
	Activo             bool
	FechaCreacion      time.Time
	FechaActualizacion time.Time
}
