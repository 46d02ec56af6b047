package dto

import "sequencer/internal/entities"

type CreateEmissionDTO struct {
	Detail      string `json:"detail" validate:"required,min=1"`
	Destination string `json:"destination" validate:"required,min=1"`
	Date        string `json:"date" validate:"omitempty,dmy_date"`
}

type CreateEmissionBatchDTO struct {
	Detail      string `json:"detail" validate:"required,min=1"`
	Destination string `json:"destination" validate:"required,min=1"`
	Date        string `json:"date" validate:"omitempty,dmy_date"`
	Quantity    int    `json:"quantity" validate:"required"`

	// Только для администраторов: эмиссия от имени другого пользователя.
	UserID string `json:"user_id" validate:"omitempty,uuid4"`
}

type UpdateEmissionDTO struct {
	Detail      *string `json:"detail" validate:"omitempty,min=1"`
	Destination *string `json:"destination" validate:"omitempty,min=1"`
	Date        *string `json:"date" validate:"omitempty,dmy_date"`
}

// DepartmentPageDTO — страница реестра одного департамента.
type DepartmentPageDTO struct {
	DepartmentID   string              `json:"department_id"`
	DepartmentName string              `json:"department_name"`
	Emissions      []entities.Emission `json:"emissions"`
	Total          uint64              `json:"total"`
	Page           uint64              `json:"page"`
	PageSize       uint64              `json:"page_size"`
}

// ListingDTO — ответ личного реестра: по странице на департамент
// плюс выбранная вкладка.
type ListingDTO struct {
	Query       string              `json:"q,omitempty"`
	Tab         int                 `json:"tab"`
	Departments []DepartmentPageDTO `json:"departments"`
}
