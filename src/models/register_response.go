package models

type RegisterResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	SuperAdmin bool   `json:"super_admin"`
}
