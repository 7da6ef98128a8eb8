package dto

// ── authentication ──

// VolunteerLoginRequest card id plus surname
type VolunteerLoginRequest struct {
	CardID  int    `json:"card_id" binding:"required,gt=0"`
	Surname string `json:"surname" binding:"required,max=128"`
}

// AdminLoginRequest card id plus the shared administrator password
type AdminLoginRequest struct {
	CardID   int    `json:"card_id"  binding:"required,gt=0"`
	Password string `json:"password" binding:"required,min=8"`
}

// SessionResponse authenticated session; the token also travels in the
// session cookie
type SessionResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
	CardID    int    `json:"card_id"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Role      string `json:"role"`
}

// MeResponse current session
type MeResponse struct {
	CardID    int    `json:"card_id"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}
