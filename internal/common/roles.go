package common

// Role names as issued by the backend in the token's "roles" claim.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)
