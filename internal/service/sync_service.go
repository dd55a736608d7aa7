package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/estudociclo/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrItemCompleted 当尝试编辑已完成会话的表现数据时返回
	ErrItemCompleted = errors.New("cycle item already completed")
	// ErrNegativeScore 表现计数为负时返回
	ErrNegativeScore = errors.New("score must not be negative")
)

// ItemUpdate 定义会话编辑的可选字段，nil 表示保持原值
// Correct/Wrong 为绝对值，累加模式由调用方换算后再传入
type ItemUpdate struct {
	Completed   *bool
	Correct     *int
	Wrong       *int
	NotebookURL *string
	Name        *string
}

// SyncService 实现会话编辑的同步协议：
// 任何影响表现数据的编辑都会扇出到所属学科的聚合计数，
// 以及同学科全部未完成的兄弟会话，同时落下审计历史。
// 完成中的会话把计数冻结为学科当时的聚合值，此后任何兄弟更新都不再触碰它。
// 整个更新在单个事务内完成；兄弟同步是对相同目标值的纯覆盖写，重试天然幂等。
type SyncService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSyncService 构造 SyncService
func NewSyncService(gdb *gorm.DB) *SyncService {
	return &SyncService{db: gdb, now: time.Now}
}

// ApplyUpdate 将一次编辑应用到指定会话并保持全局一致。
// 完成状态不变的 completed 字段视为无转换：不追加历史、不改时间戳，重复提交为空操作。
// 完成与计分出现在同一请求时以冻结为准，调用方提交的计数被忽略。
func (s *SyncService) ApplyUpdate(userKey, itemID string, update ItemUpdate) (*db.CycleItem, error) {
	if (update.Correct != nil && *update.Correct < 0) || (update.Wrong != nil && *update.Wrong < 0) {
		return nil, ErrNegativeScore
	}

	var updated db.CycleItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item db.CycleItem
		if err := tx.Where("id = ? AND user_key = ?", itemID, userKey).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		now := s.now()
		var entries []db.HistoryEntry

		reopening := update.Completed != nil && !*update.Completed && item.Completed
		completing := update.Completed != nil && *update.Completed && !item.Completed

		// 已完成会话的表现与链接数据被冻结，除非同一请求先将其重新打开
		editsFrozen := update.Correct != nil || update.Wrong != nil || update.NotebookURL != nil
		if item.Completed && !reopening && editsFrozen {
			return ErrItemCompleted
		}

		if reopening {
			item.Completed = false
			item.CompletedAt = nil
			entries = append(entries, newHistoryEntry(item.ID, now, actionSessionReopened, "", db.HistoryTypeStatus))
		}

		perfChanged := false
		if !completing {
			if update.Correct != nil && *update.Correct != item.Correct {
				entries = append(entries, newHistoryEntry(item.ID, now, actionScoreUpdated,
					fmt.Sprintf("correct %d → %d", item.Correct, *update.Correct), db.HistoryTypePerformance))
				item.Correct = *update.Correct
				perfChanged = true
			}
			if update.Wrong != nil && *update.Wrong != item.Wrong {
				entries = append(entries, newHistoryEntry(item.ID, now, actionScoreUpdated,
					fmt.Sprintf("wrong %d → %d", item.Wrong, *update.Wrong), db.HistoryTypePerformance))
				item.Wrong = *update.Wrong
				perfChanged = true
			}
		}

		linkChanged := false
		if update.NotebookURL != nil {
			trimmed := strings.TrimSpace(*update.NotebookURL)
			if trimmed != item.NotebookURL {
				entries = append(entries, newHistoryEntry(item.ID, now, actionLinkUpdated,
					fmt.Sprintf("%s → %s", item.NotebookURL, trimmed), db.HistoryTypeLink))
				item.NotebookURL = trimmed
				linkChanged = true
			}
		}

		if update.Name != nil && strings.TrimSpace(*update.Name) != "" {
			item.Name = strings.TrimSpace(*update.Name)
		}

		if completing {
			// 冻结为学科当前的聚合值，而非调用方提交的数字，作为该次作答的永久记录。
			// 学科已被删除（孤儿会话）时保留会话自身的计数。
			var subject db.Subject
			switch err := tx.Where("id = ? AND user_key = ?", item.SubjectID, userKey).First(&subject).Error; {
			case err == nil:
				item.Correct = subject.TotalCorrect
				item.Wrong = subject.TotalWrong
			case errors.Is(err, gorm.ErrRecordNotFound):
				log.Printf("[sync] completing orphaned item %s, keeping its own score", item.ID)
			default:
				return err
			}

			item.Completed = true
			completedAt := now
			item.CompletedAt = &completedAt
			entries = append(entries, newHistoryEntry(item.ID, now, actionSessionCompleted, "", db.HistoryTypeStatus))
		}

		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
		}

		if perfChanged || linkChanged {
			// 兄弟扇出：同学科全部未完成的其它会话获得相同的新值，已完成的永不触碰
			siblingUpdates := make(map[string]interface{})
			subjectUpdates := make(map[string]interface{})
			if perfChanged {
				siblingUpdates["correct"] = item.Correct
				siblingUpdates["wrong"] = item.Wrong
				subjectUpdates["total_correct"] = item.Correct
				subjectUpdates["total_wrong"] = item.Wrong
			}
			if linkChanged {
				siblingUpdates["notebook_url"] = item.NotebookURL
				subjectUpdates["notebook_url"] = item.NotebookURL
			}

			if err := tx.Model(&db.CycleItem{}).
				Where("user_key = ? AND subject_id = ? AND completed = ? AND id <> ?",
					userKey, item.SubjectID, false, item.ID).
				Updates(siblingUpdates).Error; err != nil {
				return err
			}

			// 学科聚合回写，下一次循环生成以此为新基线
			if err := tx.Model(&db.Subject{}).
				Where("id = ? AND user_key = ?", item.SubjectID, userKey).
				Updates(subjectUpdates).Error; err != nil {
				return err
			}
		}

		updated = item
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrItemCompleted) {
			return nil, err
		}
		return nil, fmt.Errorf("apply item update: %w", err)
	}

	return &updated, nil
}
