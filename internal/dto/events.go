package dto

const (
	EventWelcome       = "user.welcome"
	EventPasswordReset = "user.reset_password"
)

type WelcomeEmailEvent struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	URL    string `json:"url"`
}

type PasswordResetEvent struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	ResetURL  string `json:"reset_url"`
	ExpiresAt string `json:"expires_at"`
}
