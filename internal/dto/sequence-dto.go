package dto

type CreateSequenceDTO struct {
	DocumentTypeID string `json:"document_type_id" validate:"required,uuid4"`
	Year           int    `json:"year" validate:"required,gte=2000,lte=2100"`
	CanEmit        bool   `json:"can_emit"`
}

type SequenceDTO struct {
	ID               string `json:"id"`
	DepartmentID     string `json:"department_id"`
	DocumentTypeID   string `json:"document_type_id"`
	DocumentTypeName string `json:"document_type_name,omitempty"`
	Year             int    `json:"year"`
	Sequence         int64  `json:"sequence"`
	CanEmit          bool   `json:"can_emit"`
}

type CreateDocumentTypeDTO struct {
	Name string `json:"name" validate:"required,min=2"`
}
