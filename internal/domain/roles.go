package domain

type Role string

const (
	// RoleUser applies to jobs and sees its own applications.
	RoleUser Role = "user"
	// RoleAdmin reviews every application and decides on it.
	RoleAdmin Role = "admin"
)

func IsValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RoleAdmin)
}
