// Package model 定义校园助手的数据模型。
package model

// Role 用户权限等级。
type Role string

const (
	RoleGuest  Role = "guest"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// ParseRole parses a role name, unknown names fall back to guest.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleMember:
		return RoleMember
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleGuest
	}
}

// IsInstitute reports whether the role belongs to the institute (member or admin).
func (r Role) IsInstitute() bool {
	return r == RoleMember || r == RoleAdmin
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// User 登录用户，仅存在于会话中，不持久化。
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}
