package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword 是未提供密码时创建账号使用的初始密码
const DefaultPassword = "mudar123"

// User 定义了用户模型
// 核心服务只依赖 Username 作为数据归属键，不涉及会话管理
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
}

// EnsureUser 存在性检查：若提供的用户名不存在对应账号则创建一个 bcrypt 哈希的用户，
// 返回可用于数据归属的 user key（即用户名）。
func EnsureUser(username, password string) (string, error) {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" {
		return "", errors.New("username is required")
	}

	if DB == nil {
		return "", errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return "", err
		}

		if trimmedPassword == "" {
			trimmedPassword = DefaultPassword
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}

		if err := DB.Create(&User{Username: trimmedUser, Password: string(hashed)}).Error; err != nil {
			return "", err
		}
	}

	return trimmedUser, nil
}
