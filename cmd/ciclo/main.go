package main

import (
	"log"
	"os"

	"github.com/estudociclo/internal/config"
	"github.com/estudociclo/internal/db"
	"github.com/spf13/cobra"
)

// userKey 为当前数据归属键，启动时由配置解析
var userKey string

func main() {
	cfg := config.Load()

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	key, err := db.EnsureUser(cfg.DefaultUserName, cfg.DefaultPassword)
	if err != nil {
		log.Fatalf("用户初始化失败: %v", err)
	}
	userKey = key

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ciclo",
		Short:         "Personal study cycle planner",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newSubjectCmd(), newCycleCmd(), newSessionCmd())
	return root
}
