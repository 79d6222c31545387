package user

import "github.com/tooniwear/storefront-backend/internal/session"

// User is a registered customer. Password holds the bcrypt digest and is
// never sent to clients.
type User struct {
	ID        string `json:"id"`
	FullName  string `json:"fullName"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Principal is the public profile carried in the session.
func (u User) Principal() session.Principal {
	return session.Principal{ID: u.ID, FullName: u.FullName, Email: u.Email, CreatedAt: u.CreatedAt}
}

func sanitizeUser(u User) User {
	u.Password = ""
	return u
}
