package models

import "time"

type User struct {
	ID           int       `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleVendor     UserRole = "vendor"
	RoleRestaurant UserRole = "restaurant"
	RoleDriver     UserRole = "driver"
	RoleCustomer   UserRole = "customer"
)

// ValidRole reports whether role is one of the five marketplace roles.
func ValidRole(role string) bool {
	switch UserRole(role) {
	case RoleAdmin, RoleVendor, RoleRestaurant, RoleDriver, RoleCustomer:
		return true
	}
	return false
}

type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token,omitempty"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}
