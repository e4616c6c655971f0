package booking

// RoleType represents the role the API assigns to a user
type RoleType string

const (
	RoleUser       RoleType = "user"       // Guest making reservations
	RoleOwner      RoleType = "owner"      // Can manage their own properties and rooms
	RoleSuperAdmin RoleType = "superadmin" // Can manage user roles
)

// Valid reports whether r is one of the roles the API accepts.
func (r RoleType) Valid() bool {
	switch r {
	case RoleUser, RoleOwner, RoleSuperAdmin:
		return true
	}
	return false
}

type User struct {
	ID        int      `json:"id"`                   // Unique identifier for the user
	Name      string   `json:"name,omitempty"`       // Display name
	Email     string   `json:"email,omitempty"`      // User's email address
	Role      RoleType `json:"role,omitempty"`       // Role granted by the API
	CreatedAt string   `json:"created_at,omitempty"` // ISO timestamp as returned by the API
}

// IsSuperAdmin returns true if the user has super admin privileges
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role == RoleSuperAdmin
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of POST /auth/register.
type Registration struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     RoleType `json:"role,omitempty"`
}

// UserUpdate is the body of PUT /user. Empty fields are left unchanged.
type UserUpdate struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// TokenPair is the login and refresh response.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// MessageResponse is the generic acknowledgement most mutating endpoints return.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
}
