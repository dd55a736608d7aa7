package main

import (
	"testing"

	"github.com/estudociclo/internal/db"
	"github.com/estudociclo/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCLITest(t *testing.T) func() {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Subject{}, &db.CycleItem{}, &db.HistoryEntry{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb
	userKey = "u1"

	return func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func TestSessionScoreAddMode(t *testing.T) {
	cleanup := setupCLITest(t)
	defer cleanup()

	subjectSvc := service.NewSubjectService(db.DB)
	cycleSvc := service.NewCycleService(db.DB)
	syncSvc := service.NewSyncService(db.DB)

	subject, err := subjectSvc.Create("u1", service.SubjectInput{Name: "Matemática", TotalHours: 2, Frequency: 2})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	result, err := cycleSvc.Generate("u1", []string{subject.ID}, false)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	itemID := result.Items[0].ID

	// 先落一个非零计数
	correct, wrong := 4, 1
	if _, err := syncSvc.ApplyUpdate("u1", itemID, service.ItemUpdate{Correct: &correct, Wrong: &wrong}); err != nil {
		t.Fatalf("ApplyUpdate returned error: %v", err)
	}

	// 累加模式在 CLI 层换算为绝对值再交给同步协议
	root := newRootCmd()
	root.SetArgs([]string{"session", "score", itemID, "--correct", "3", "--wrong", "1", "--add"})
	if err := root.Execute(); err != nil {
		t.Fatalf("score --add returned error: %v", err)
	}

	item, err := cycleSvc.Get("u1", itemID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if item.Correct != 7 || item.Wrong != 2 {
		t.Fatalf("expected 7/2 after add mode, got %d/%d", item.Correct, item.Wrong)
	}

	// 不带 --add 时为覆盖写入，未提供的字段保持原值
	root = newRootCmd()
	root.SetArgs([]string{"session", "score", itemID, "--correct", "5"})
	if err := root.Execute(); err != nil {
		t.Fatalf("score returned error: %v", err)
	}

	item, err = cycleSvc.Get("u1", itemID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if item.Correct != 5 || item.Wrong != 2 {
		t.Fatalf("expected 5/2 after absolute mode, got %d/%d", item.Correct, item.Wrong)
	}
}
