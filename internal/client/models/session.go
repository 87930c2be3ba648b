package models

// Status tracks the login attempt lifecycle.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Session is the client-side record of whether a user is logged in.
// Empty Token and Error and a nil User stand for "null".
type Session struct {
	IsAuthenticated bool
	Token           string
	User            *User
	Status          Status
	Error           string
}

// LoginRequest carries exactly one of Email or Mobile.
type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user,omitempty"`
}

type RegisterRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	MobileCountryCode string `json:"mobileCountryCode"`
	Mobile            string `json:"mobile"`
	Password          string `json:"password"`
	RoleID            int    `json:"roleId"`
}
