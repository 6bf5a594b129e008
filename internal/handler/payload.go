package handler

type registerRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Nombre   string `json:"nombre"   validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"       validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type updateUserRequest struct {
	Nombre *string `json:"nombre"`
	Activo *bool   `json:"activo"`
}
