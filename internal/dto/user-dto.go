package dto

type CreateUserDTO struct {
	Login    string `json:"login" validate:"required,login_format"`
	Fio      string `json:"fio" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type UserDTO struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Fio   string `json:"fio"`
	Email string `json:"email"`
}
