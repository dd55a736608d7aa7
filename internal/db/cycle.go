package db

import "time"

// 历史记录分类，对应会话上不同来源的变更
const (
	HistoryTypeStatus      = "status"
	HistoryTypePerformance = "performance"
	HistoryTypeLink        = "link"
	HistoryTypeSystem      = "system"
)

// CycleItem 表示循环队列中的一次学习会话
// SubjectID 为弱引用，学科删除后允许悬空，展示层需要容忍孤儿记录
// Name/NotebookURL/HoursPerSession 为创建时从学科拷贝的快照，之后可独立编辑
// Correct/Wrong 在同一学科的未完成会话之间保持一致，完成后冻结为当时的聚合值
// CreatedAt 按发射顺序严格递增，可用于还原交错顺序
type CycleItem struct {
	ID              string `gorm:"primaryKey"`
	UserKey         string `gorm:"index;not null"`
	SubjectID       string `gorm:"index"`
	Name            string
	NotebookURL     string
	Completed       bool `gorm:"index"`
	CompletedAt     *time.Time
	Correct         int
	Wrong           int
	HoursPerSession float64
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time
	History         []HistoryEntry `gorm:"foreignKey:ItemID"`
}

// HistoryEntry 是会话的仅追加审计记录，创建后不再修改或删除
// Details 存放 "3 → 5" 这类前后值描述，可为空
type HistoryEntry struct {
	ID        string `gorm:"primaryKey"`
	ItemID    string `gorm:"index;not null"`
	Timestamp time.Time
	Action    string
	Details   string
	Type      string
}
