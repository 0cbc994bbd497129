package model

// User пациент, авторизованный через бэкенд клиники
type User struct {
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	Token    string `json:"token,omitempty"`
}

// DisplayName возвращает имя для приветствия
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// RolePatient роль, с которой бот регистрирует аккаунты
const RolePatient = "patient"

// Registration данные для создания аккаунта пациента
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	CCCD     string `json:"cccd"`
	Phone    string `json:"phone"`
	Role     string `json:"role,omitempty"`
}
