package dto

type GoogleSignInRequest struct {
	Credential string `json:"credential"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID         int     `json:"id"`
	Email      *string `json:"email"`
	Name       *string `json:"name"`
	PictureURL *string `json:"pictureUrl"`
}

type SettingsResponse struct {
	ChartSpacingMode string `json:"chartSpacingMode"`
	Language         string `json:"language"`
}

type UpdateSettingsRequest struct {
	ChartSpacingMode *string `json:"chartSpacingMode"`
	Language         *string `json:"language"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
