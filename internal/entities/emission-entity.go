package entities

import (
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"

	"sequencer/pkg/types"
)

// Emission — исходящий документ. Номер уникален в пределах потока
// нумерации, выдаётся при создании и не переиспользуется.
type Emission struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	SequenceID  uuid.UUID     `json:"sequence_id" db:"sequence_id"`
	Number      int64         `json:"number" db:"number"`
	Detail      string        `json:"detail" db:"detail"`
	Destination string        `json:"destination" db:"destination"`
	UserID      uuid.UUID     `json:"user_id" db:"user_id"`
	Batch       uuid.NullUUID `json:"batch,omitempty" db:"batch"`
	Date        time.Time     `json:"date" db:"date"`

	Received     bool          `json:"received" db:"received"`
	UserReceived uuid.NullUUID `json:"user_received,omitempty" db:"user_received"`
	DateReceived null.Time     `json:"date_received,omitempty" db:"date_received"`

	// Аннотации листинга
	DepartmentID     uuid.UUID `json:"department_id,omitempty" db:"-"`
	DocumentTypeName string    `json:"document_type_name,omitempty" db:"-"`
	SequenceYear     int       `json:"sequence_year,omitempty" db:"-"`
	UserFio          string    `json:"user_fio,omitempty" db:"-"`
	ActiveFilesCount int64     `json:"active_files_count" db:"-"`

	types.BaseEntity
}

type EmissionFile struct {
	ID         uuid.UUID `json:"id" db:"id"`
	EmissionID uuid.UUID `json:"emission_id" db:"emission_id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	FileName   string    `json:"file_name" db:"file_name"`
	FilePath   string    `json:"-" db:"file_path"`
	FileType   string    `json:"file_type" db:"file_type"`
	FileSize   int64     `json:"file_size" db:"file_size"`
	IsActive   bool      `json:"is_active" db:"is_active"`

	types.BaseEntity
}

// ReportRow — строка реестра для выгрузки в Excel.
type ReportRow struct {
	Number           int64         `db:"number"`
	Detail           string        `db:"detail"`
	Destination      string        `db:"destination"`
	Date             time.Time     `db:"date"`
	DocumentTypeName string        `db:"document_type_name"`
	SequenceYear     int           `db:"sequence_year"`
	UserFio          null.String   `db:"user_fio"`
	Received         bool          `db:"received"`
	ReceivedFio      null.String   `db:"received_fio"`
	DateReceived     null.Time     `db:"date_received"`
	Batch            uuid.NullUUID `db:"batch"`
}
