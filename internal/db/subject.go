package db

import "time"

// Subject 定义了学科模型
// Frequency 表示一次循环中该学科的重复次数，TotalHours 为单次会话时长
// TotalCorrect/TotalWrong 为最近一次作答的累计对错计数，由同步逻辑回写
// IsActive 控制是否参与下一次循环生成
// NotebookURL 为可选的外部笔记链接
type Subject struct {
	ID           string `gorm:"primaryKey"`
	UserKey      string `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	NotebookURL  string
	TotalHours   float64
	Frequency    int
	IsActive     bool
	TotalCorrect int
	TotalWrong   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
