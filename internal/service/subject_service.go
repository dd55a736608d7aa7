package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/estudociclo/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrSubjectNotFound 在指定学科不存在时返回
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrSubjectInvalidInput 当学科字段校验失败时返回
	ErrSubjectInvalidInput = errors.New("invalid subject input")
)

// SubjectService 负责学科目录的增删改查
// 聚合计数 TotalCorrect/TotalWrong 不在此处直接编辑，由 SyncService 随会话更新回写，
// 保证下一次循环生成读到的是最新基线
type SubjectService struct {
	db  *gorm.DB
	now func() time.Time
}

// SubjectInput 定义创建学科时的可配置字段
type SubjectInput struct {
	Name        string
	NotebookURL string
	TotalHours  float64
	Frequency   int
}

// SubjectUpdate 定义部分更新的可选字段，nil 表示保持原值
type SubjectUpdate struct {
	Name        *string
	NotebookURL *string
	TotalHours  *float64
	Frequency   *int
	IsActive    *bool
}

// NewSubjectService 构造 SubjectService
func NewSubjectService(gdb *gorm.DB) *SubjectService {
	return &SubjectService{db: gdb, now: time.Now}
}

// Create 新建学科，聚合计数从零开始，默认参与循环生成
func (s *SubjectService) Create(userKey string, input SubjectInput) (*db.Subject, error) {
	if err := validateSubjectInput(input.Name, input.TotalHours, input.Frequency); err != nil {
		return nil, err
	}

	subject := db.Subject{
		ID:          uuid.NewString(),
		UserKey:     userKey,
		Name:        strings.TrimSpace(input.Name),
		NotebookURL: strings.TrimSpace(input.NotebookURL),
		TotalHours:  input.TotalHours,
		Frequency:   input.Frequency,
		IsActive:    true,
		CreatedAt:   s.now(),
	}

	if err := s.db.Create(&subject).Error; err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	return &subject, nil
}

// Get 根据 ID 获取当前用户的学科
func (s *SubjectService) Get(userKey, id string) (*db.Subject, error) {
	var subject db.Subject
	if err := s.db.Where("id = ? AND user_key = ?", id, userKey).First(&subject).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}
	return &subject, nil
}

// Update 合并提供的字段到既有学科，未提供的字段保持原值
func (s *SubjectService) Update(userKey, id string, update SubjectUpdate) (*db.Subject, error) {
	existing, err := s.Get(userKey, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		existing.Name = strings.TrimSpace(*update.Name)
	}
	if update.NotebookURL != nil {
		existing.NotebookURL = strings.TrimSpace(*update.NotebookURL)
	}
	if update.TotalHours != nil {
		existing.TotalHours = *update.TotalHours
	}
	if update.Frequency != nil {
		existing.Frequency = *update.Frequency
	}
	if update.IsActive != nil {
		existing.IsActive = *update.IsActive
	}

	if err := validateSubjectInput(existing.Name, existing.TotalHours, existing.Frequency); err != nil {
		return nil, err
	}

	if err := s.db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update subject: %w", err)
	}
	return existing, nil
}

// ToggleAll 统一设置当前用户全部学科的 IsActive，便于一键全选/全不选
func (s *SubjectService) ToggleAll(userKey string, active bool) error {
	if err := s.db.Model(&db.Subject{}).
		Where("user_key = ?", userKey).
		Update("is_active", active).Error; err != nil {
		return fmt.Errorf("toggle subjects: %w", err)
	}
	return nil
}

// Delete 从目录移除学科。既有循环会话保留其 SubjectID 快照，不做级联删除。
// ID 不存在时视为空操作，仅记录告警。
func (s *SubjectService) Delete(userKey, id string) error {
	result := s.db.Where("id = ? AND user_key = ?", id, userKey).Delete(&db.Subject{})
	if result.Error != nil {
		return fmt.Errorf("delete subject: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		log.Printf("[subject] delete ignored, unknown id: %s", id)
	}
	return nil
}

// List 按创建顺序返回当前用户的全部学科
func (s *SubjectService) List(userKey string) ([]db.Subject, error) {
	var subjects []db.Subject
	if err := s.db.Where("user_key = ?", userKey).
		Order("created_at ASC").
		Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// ListActive 返回参与下一次循环生成的学科，保持创建顺序作为选择顺序
func (s *SubjectService) ListActive(userKey string) ([]db.Subject, error) {
	var subjects []db.Subject
	if err := s.db.Where("user_key = ? AND is_active = ?", userKey, true).
		Order("created_at ASC").
		Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("list active subjects: %w", err)
	}
	return subjects, nil
}

func validateSubjectInput(name string, totalHours float64, frequency int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrSubjectInvalidInput)
	}
	if totalHours <= 0 {
		return fmt.Errorf("%w: total hours must be positive", ErrSubjectInvalidInput)
	}
	if frequency < 1 {
		return fmt.Errorf("%w: frequency must be at least 1", ErrSubjectInvalidInput)
	}
	return nil
}
