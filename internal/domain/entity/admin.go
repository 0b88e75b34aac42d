package entity

import "time"

// Identity is what the external identity provider vouches for.
type Identity struct {
	Email string
	Name  string
}

// AdminSession is the server-side record of a signed-in admin.
type AdminSession struct {
	TokenID   string    `json:"token_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LoginAt   time.Time `json:"login_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AdminAllowList holds the emails permitted to use the admin surface.
type AdminAllowList []string

// Contains reports an exact, case-sensitive match.
func (l AdminAllowList) Contains(email string) bool {
	if email == "" {
		return false
	}
	for _, allowed := range l {
		if allowed == email {
			return true
		}
	}
	return false
}
