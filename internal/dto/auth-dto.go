package dto

type LoginDTO struct {
	Login    string `json:"login" validate:"required,login_format"`
	Password string `json:"password" validate:"required,min=6"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type ProfileDTO struct {
	ID          string          `json:"id"`
	Login       string          `json:"login"`
	Fio         string          `json:"fio"`
	Email       string          `json:"email"`
	Memberships []MembershipDTO `json:"memberships"`
}
