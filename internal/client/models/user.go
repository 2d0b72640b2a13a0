package models

// User is one row of the admin user list (GET /admin/getusers).
type User struct {
	UserID   int64  `json:"userId"`
	Username string `json:"userName"`
	Email    string `json:"email"`
	Enabled  bool   `json:"enabled"`
}

// UserDetail is the admin projection of a single account
// (GET /admin/user/{id}).
type UserDetail struct {
	UserID           int64  `json:"userId"`
	Username         string `json:"userName"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	Enabled          bool   `json:"enabled"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
}

// Profile is the authenticated user's own account view (GET /auth/user).
type Profile struct {
	ID               int64    `json:"id"`
	Username         string   `json:"username"`
	Email            string   `json:"email"`
	Enabled          bool     `json:"accountEnabled"`
	TwoFactorEnabled bool     `json:"isTwoFactorEnabled"`
	Roles            []string `json:"roles"`
}
