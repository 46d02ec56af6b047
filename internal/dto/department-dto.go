package dto

type CreateDepartmentDTO struct {
	Name string `json:"name" validate:"required,min=2"`
}

type DepartmentDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CanAdministrate bool   `json:"can_administrate"`
}

type MembershipDTO struct {
	DepartmentID    string `json:"department_id"`
	DepartmentName  string `json:"department_name,omitempty"`
	UserID          string `json:"user_id"`
	UserFio         string `json:"user_fio,omitempty"`
	CanAdministrate bool   `json:"can_administrate"`
}

type AddMemberDTO struct {
	UserID          string `json:"user_id" validate:"required,uuid4"`
	CanAdministrate bool   `json:"can_administrate"`
}

type UpdateMemberDTO struct {
	CanAdministrate bool `json:"can_administrate"`
}
