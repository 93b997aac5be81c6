package domain

import "time"

type Role struct {
	ID          string
	Name        string // unique, 2-50 chars
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const (
	RoleNameMinLen = 2
	RoleNameMaxLen = 50
)
