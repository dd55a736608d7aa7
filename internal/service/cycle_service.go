package service

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/estudociclo/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrItemNotFound 在指定会话不存在时返回
	ErrItemNotFound = errors.New("cycle item not found")
	// ErrNoSubjectsSelected 当循环生成没有可用学科时返回
	ErrNoSubjectsSelected = errors.New("no subjects selected for cycle")
)

// CycleService 负责循环队列的生成、读取与删除
// 会话的表现编辑走 SyncService，此处只管理队列本身
type CycleService struct {
	db  *gorm.DB
	now func() time.Time
}

// GenerateResult 描述一次循环生成的结果
// Degraded 表示批量写入经过降级重试，可选字段（completed_at、history）未能落库
type GenerateResult struct {
	Items    []db.CycleItem
	Skipped  []string
	Degraded bool
}

// CycleStats 汇总循环的整体表现，供摘要展示使用
type CycleStats struct {
	Correct      int
	Wrong        int
	Total        int
	CorrectPct   int
	WrongPct     int
	HoursStudied float64
	HoursToStudy float64
}

// NewCycleService 构造 CycleService
func NewCycleService(gdb *gorm.DB) *CycleService {
	return &CycleService{db: gdb, now: time.Now}
}

// Generate 为选中的学科生成新一轮会话并入库。
// keepProgress=false 时先把所选学科的聚合计数归零并清空现有队列（彻底重新开始）；
// keepProgress=true 时新会话追加到现有队列，并以各学科当前聚合作为共享基线。
// 未知的学科 ID 跳过并记录告警，不会中断整批生成。
func (s *CycleService) Generate(userKey string, selectedIDs []string, keepProgress bool) (*GenerateResult, error) {
	if len(selectedIDs) == 0 {
		return nil, ErrNoSubjectsSelected
	}

	var loaded []db.Subject
	if err := s.db.Where("user_key = ? AND id IN ?", userKey, selectedIDs).Find(&loaded).Error; err != nil {
		return nil, fmt.Errorf("load selected subjects: %w", err)
	}

	byID := make(map[string]db.Subject, len(loaded))
	for _, sub := range loaded {
		byID[sub.ID] = sub
	}

	result := &GenerateResult{}
	ordered := make([]db.Subject, 0, len(selectedIDs))
	for _, id := range selectedIDs {
		sub, ok := byID[id]
		if !ok {
			log.Printf("[cycle] generate skipped unknown subject: %s", id)
			result.Skipped = append(result.Skipped, id)
			continue
		}
		ordered = append(ordered, sub)
	}
	if len(ordered) == 0 {
		return nil, ErrNoSubjectsSelected
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if !keepProgress {
			if err := tx.Model(&db.Subject{}).
				Where("user_key = ? AND id IN ?", userKey, selectedIDs).
				Updates(map[string]interface{}{"total_correct": 0, "total_wrong": 0}).Error; err != nil {
				return err
			}
			for i := range ordered {
				ordered[i].TotalCorrect = 0
				ordered[i].TotalWrong = 0
			}
			if err := clearCycleTx(tx, userKey); err != nil {
				return err
			}
		}

		items := Interleave(ordered, InterleaveOptions{
			KeepProgress: keepProgress,
			Base:         s.now(),
		})
		for i := range items {
			items[i].History = []db.HistoryEntry{
				newHistoryEntry(items[i].ID, items[i].CreatedAt, actionSessionInitialized, "", db.HistoryTypeSystem),
			}
		}

		degraded, err := insertItems(tx, items)
		if err != nil {
			return err
		}

		result.Items = items
		result.Degraded = degraded
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("generate cycle: %w", err)
	}

	return result, nil
}

// insertItems 批量写入新会话。完整写入被拒绝时按降级策略重试一次，
// 剔除可选字段（completed_at 与 history 关联）保住必选字段落库，并向上返回降级标记。
func insertItems(tx *gorm.DB, items []db.CycleItem) (bool, error) {
	if len(items) == 0 {
		return false, nil
	}

	if err := tx.Create(&items).Error; err != nil {
		log.Printf("[cycle] full insert rejected, retrying with reduced fields: %v", err)
		if retryErr := tx.Omit("History", "CompletedAt").Create(&items).Error; retryErr != nil {
			return false, fmt.Errorf("batch insert: %w", retryErr)
		}
		return true, nil
	}
	return false, nil
}

// List 返回展示顺序的循环队列：未完成在前，组内更近创建的排前面。
// 完成状态随时间变化，这一顺序在每次读取时重新计算，不依赖存储顺序。
func (s *CycleService) List(userKey string) ([]db.CycleItem, error) {
	var items []db.CycleItem
	if err := s.db.Where("user_key = ?", userKey).
		Order("completed ASC, created_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list cycle items: %w", err)
	}
	return items, nil
}

// Get 返回单个会话及其按时间排序的历史记录
func (s *CycleService) Get(userKey, id string) (*db.CycleItem, error) {
	var item db.CycleItem
	if err := s.db.Preload("History", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("timestamp ASC")
	}).Where("id = ? AND user_key = ?", id, userKey).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get cycle item: %w", err)
	}
	return &item, nil
}

// DeleteItem 删除单个会话及其历史。ID 不存在时视为空操作，仅记录告警。
func (s *CycleService) DeleteItem(userKey, id string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_key = ?", id, userKey).Delete(&db.CycleItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			log.Printf("[cycle] delete ignored, unknown item: %s", id)
			return nil
		}
		return tx.Where("item_id = ?", id).Delete(&db.HistoryEntry{}).Error
	})
	if err != nil {
		return fmt.Errorf("delete cycle item: %w", err)
	}
	return nil
}

// Clear 清空当前用户的整个循环队列，学科的聚合计数保持不变
func (s *CycleService) Clear(userKey string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return clearCycleTx(tx, userKey)
	})
	if err != nil {
		return fmt.Errorf("clear cycle: %w", err)
	}
	return nil
}

func clearCycleTx(tx *gorm.DB, userKey string) error {
	itemIDs := tx.Model(&db.CycleItem{}).Select("id").Where("user_key = ?", userKey)
	if err := tx.Where("item_id IN (?)", itemIDs).Delete(&db.HistoryEntry{}).Error; err != nil {
		return err
	}
	return tx.Where("user_key = ?", userKey).Delete(&db.CycleItem{}).Error
}

// Stats 计算循环的整体统计。对错计数按学科去重
// （同一学科的未完成会话共享一份当前作答计数，逐条累加会按频率翻倍），
// 学时则按会话逐条累计。subjectID 非空时仅统计该学科。
func (s *CycleService) Stats(userKey, subjectID string) (*CycleStats, error) {
	items, err := s.List(userKey)
	if err != nil {
		return nil, err
	}

	stats := &CycleStats{}
	seen := make(map[string]bool)
	for _, item := range items {
		if subjectID != "" && item.SubjectID != subjectID {
			continue
		}
		if !seen[item.SubjectID] {
			seen[item.SubjectID] = true
			stats.Correct += item.Correct
			stats.Wrong += item.Wrong
		}
		if item.Completed {
			stats.HoursStudied += item.HoursPerSession
		} else {
			stats.HoursToStudy += item.HoursPerSession
		}
	}

	stats.Total = stats.Correct + stats.Wrong
	if stats.Total > 0 {
		stats.CorrectPct = int(math.Round(float64(stats.Correct) / float64(stats.Total) * 100))
		stats.WrongPct = 100 - stats.CorrectPct
	}
	return stats, nil
}
