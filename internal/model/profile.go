package model

import "time"

// Profile is the user document kept in the document store, keyed by the
// Firebase UID shared with the usuarios table.
type Profile struct {
	UID                string     `bson:"_id"`
	Email              string     `bson:"email"`
	Nombre             string     `bson:"nombre"`
	EmailVerified      bool       `bson:"email_verified"`
	Activo             bool       `bson:"activo"`
	UltimoLogin        *time.Time `bson:"ultimo_login,omitempty"`
	FechaCreacion      time.Time  `bson:"fecha_creacion"`
	FechaActualizacion time.Time  `bson:"fecha_actualizacion"`
}
