package entities

import (
	"github.com/google/uuid"

	"sequencer/pkg/types"
)

type Department struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`

	types.BaseEntity
}

// UserDepartment — строка членства: само существование строки даёт
// право видеть и эмитировать документы департамента,
// can_administrate — административные права над ним.
type UserDepartment struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	DepartmentID    uuid.UUID `json:"department_id" db:"department_id"`
	CanAdministrate bool      `json:"can_administrate" db:"can_administrate"`

	DepartmentName string `json:"department_name,omitempty" db:"-"`
	UserFio        string `json:"user_fio,omitempty" db:"-"`

	types.BaseEntity
}
