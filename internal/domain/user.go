package domain

type Role string

const (
	RoleAdmin Role = "管理员"
)

// Admin: 可以维护节目表的管理员，账号来自配置，不落库
type Admin struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	FullName     string `json:"fullName"`
	Role         Role   `json:"role"`
}
