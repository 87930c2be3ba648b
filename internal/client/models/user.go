package models

// Role ids understood by the backend.
const (
	RoleAdmin = 1
	RoleUser  = 2
)

type User struct {
	ID                ID     `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	MobileCountryCode string `json:"mobileCountryCode,omitempty"`
	Mobile            string `json:"mobile,omitempty"`
	RoleID            int    `json:"roleId,omitempty"`
}

func (u User) RowID() ID { return u.ID }

// UserFields is the editable part of a user. NewPassword, when set, is sent
// through the separate reset-password call.
type UserFields struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	MobileCountryCode string `json:"mobileCountryCode"`
	Mobile            string `json:"mobile"`
	Password          string `json:"password,omitempty"`
	RoleID            int    `json:"roleId,omitempty"`
	NewPassword       string `json:"-"`
}
