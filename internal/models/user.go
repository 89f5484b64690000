package models

import "time"

// UserStatus статус учётной записи, закрытое перечисление.
type UserStatus string

const (
	UserPending   UserStatus = "PENDING"
	UserActive    UserStatus = "ACTIVE"
	UserSuspended UserStatus = "SUSPENDED"
	UserDeleted   UserStatus = "DELETED"
)

// Valid сообщает, входит ли значение в закрытое перечисление статусов.
func (s UserStatus) Valid() bool {
	switch s {
	case UserPending, UserActive, UserSuspended, UserDeleted:
		return true
	}
	return false
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string     `json:"uid"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // Хэш пароля, наружу не отдается
	Role         string     `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}

// DummyUser используется для приёма данных из JSON-запроса на регистрацию.
type DummyUser struct {
	Username string `json:"username" validate:"required,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}
