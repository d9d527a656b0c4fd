package domain

import "time"

// Profile is a restricted profile with stored restriction values
type Profile struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}
