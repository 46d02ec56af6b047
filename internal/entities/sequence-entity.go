package entities

import (
	"github.com/google/uuid"

	"sequencer/pkg/types"
)

type DocumentType struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`

	types.BaseEntity
}

// Sequence — поток нумерации департамента за год по одному типу
// документов. Поле Sequence хранит последний выданный номер.
type Sequence struct {
	ID             uuid.UUID `json:"id" db:"id"`
	DepartmentID   uuid.UUID `json:"department_id" db:"department_id"`
	DocumentTypeID uuid.UUID `json:"document_type_id" db:"document_type_id"`
	Year           int       `json:"year" db:"year"`
	Sequence       int64     `json:"sequence" db:"sequence"`
	CanEmit        bool      `json:"can_emit" db:"can_emit"`

	DocumentTypeName string `json:"document_type_name,omitempty" db:"-"`

	types.BaseEntity
}
