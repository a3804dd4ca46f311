package models

type Role string

const (
	Student Role = "student"
	Teacher Role = "teacher"
	Admin   Role = "admin"
)

type User struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Role     Role   `db:"role"`
	IsActive bool   `db:"is_active"`
}
