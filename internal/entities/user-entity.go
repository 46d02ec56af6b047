package entities

import (
	"github.com/google/uuid"

	"sequencer/pkg/types"
)

type User struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Login string    `json:"login" db:"login"`
	Fio   string    `json:"fio" db:"fio"`
	Email string    `json:"email" db:"email"`

	Password string `json:"-" db:"password_hash"`

	types.BaseEntity
}
