package api

import "github.com/mmynk/mycese/internal/models"

type ListMembersRequest struct {
	Search  string            `json:"search"`
	Role    models.Role       `json:"role"`
	Status  models.UserStatus `json:"status"`
	Faculty models.Faculty    `json:"faculty"`
}

type ListMembersResponse struct {
	Members []models.User `json:"members"`
}

type AddMemberRequest struct {
	Name    string         `json:"name" validate:"required"`
	Email   string         `json:"email" validate:"required,email"`
	Phone   string         `json:"phone"`
	Faculty models.Faculty `json:"faculty" validate:"required"`
	Role    models.Role    `json:"role" validate:"required"`
	// Password is optional. A temporary password is generated when empty.
	Password string `json:"password"`
}

type AddMemberResponse struct {
	Member            models.User `json:"member"`
	TemporaryPassword string      `json:"temporaryPassword,omitempty"`
}

type UpdateMemberRequest struct {
	ID      string          `json:"id" validate:"required"`
	Name    *string         `json:"name,omitempty"`
	Phone   *string         `json:"phone,omitempty"`
	Faculty *models.Faculty `json:"faculty,omitempty"`
	Role    *models.Role    `json:"role,omitempty"`
}

type UpdateMemberResponse struct {
	Member models.User `json:"member"`
}

type SetMemberStatusRequest struct {
	ID     string            `json:"id" validate:"required"`
	Status models.UserStatus `json:"status" validate:"required"`
}

type SetMemberStatusResponse struct {
	Member models.User `json:"member"`
}
