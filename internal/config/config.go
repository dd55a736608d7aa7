package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行命令行工具所需的基础配置。
type AppConfig struct {
	DatabasePath    string
	DefaultUserName string
	DefaultPassword string
}

// Load 从 .env 与环境变量读取应用配置，并为缺失项提供安全的默认值。
// .env 不存在时静默跳过，便于纯环境变量部署。
func Load() AppConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] failed to load .env: %v", err)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "estudociclo.db"
	}

	userName := strings.TrimSpace(os.Getenv("CICLO_USER"))
	if userName == "" {
		userName = "estudante"
	}

	password := strings.TrimSpace(os.Getenv("CICLO_PASSWORD"))

	return AppConfig{
		DatabasePath:    databasePath,
		DefaultUserName: userName,
		DefaultPassword: password,
	}
}
