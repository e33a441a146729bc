package user

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID        string
	Email     string
	Password  string
	FullName  *string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
