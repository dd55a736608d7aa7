package main

import (
	"fmt"
	"log"

	"github.com/estudociclo/internal/config"
	"github.com/estudociclo/internal/db"
)

func main() {
	cfg := config.Load()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	// 检查是否已存在用户
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，无需初始化")
		return
	}

	password := cfg.DefaultPassword
	if password == "" {
		password = db.DefaultPassword
	}

	key, err := db.EnsureUser(cfg.DefaultUserName, password)
	if err != nil {
		log.Fatal("创建用户失败:", err)
	}

	fmt.Println("默认用户创建成功")
	fmt.Println("用户名:", key)
	fmt.Println("密码:", password)
}
