package domain

import "time"

// Category groups tickets by topic; tickets reference it by id and clients by slug.
type Category struct {
	ID        string
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
