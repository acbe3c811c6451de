package model

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// CanAuthor 讲师和管理员可以编辑测验
func (r UserRole) CanAuthor() bool {
	return r == Instructor || r == Admin
}
