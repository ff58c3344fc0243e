package dto

import "github.com/hongminglow/medplat-be/internal/models"

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ChangePasswordRequest struct {
	Password string `json:"password"`
}

type SetRoleRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type MessageResponse struct {
	Msg string `json:"msg"`
}

type UsersResponse struct {
	Users []models.UserSummary `json:"users"`
}
