package entity

import "strconv"

// User is the aggregate root for user domain
// Password holds a bcrypt hash, Image the avatar filename (never a path).
type User struct {
	ID       uint
	Username string
	Email    string
	Password string
	Image    string
}

// SessionID returns the identifier bound to a login session.
func (u *User) SessionID() string {
	return strconv.FormatUint(uint64(u.ID), 10)
}

// ParseSessionID converts a session identifier back into a user id.
func ParseSessionID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
