package model

import "github.com/google/uuid"

// asignarID fills a nil primary key before insert. Postgres also has a
// gen_random_uuid() default but SQLite-backed tests do not.
func asignarID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
