package entity

import "time"

// Dog is a standalone record; it has no relation to User.
type Dog struct {
	ID        uint
	Name      string
	Owner     string
	Breed     string
	CreatedAt time.Time
}
