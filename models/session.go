package models

// Session is the authenticated user as decoded from the login token.
// Role holds the raw backend role identifier (ROLE_ADMIN, ROLE_FORNECEDOR, ...).
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"-"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

// LoginResponse is the backend reply to a successful login.
type LoginResponse struct {
	Token string `json:"token"`
}
