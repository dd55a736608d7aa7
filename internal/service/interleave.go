package service

import (
	"time"

	"github.com/estudociclo/internal/db"
	"github.com/google/uuid"
)

// InterleaveOptions 控制会话发射时的基线取值与时间戳分配
// Base/Step 决定合成时间戳：第 i 个发射项的 CreatedAt = Base + i*Step，
// 严格递增，保证仅凭 created_at 升序即可还原交错顺序
type InterleaveOptions struct {
	KeepProgress bool
	Base         time.Time
	Step         time.Duration
	NewID        func() string
}

// Interleave 按轮转方式把每个学科的重复会话均匀分布到整个循环中。
// 第 r 轮按选择顺序从每个仍有剩余会话的学科各取一个，直到全部取完，
// 避免频率不同的学科扎堆出现。频率小于 1 时按 1 次处理，选中的学科不会被静默丢弃。
// 纯函数：不触碰存储，不修改入参。
func Interleave(subjects []db.Subject, opts InterleaveOptions) []db.CycleItem {
	if opts.Base.IsZero() {
		opts.Base = time.Now()
	}
	if opts.Step <= 0 {
		opts.Step = time.Millisecond
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	groups := make([][]db.CycleItem, 0, len(subjects))
	total := 0
	for _, sub := range subjects {
		reps := sub.Frequency
		if reps < 1 {
			reps = 1
		}

		correct, wrong := 0, 0
		if opts.KeepProgress {
			correct, wrong = sub.TotalCorrect, sub.TotalWrong
		}

		group := make([]db.CycleItem, 0, reps)
		for i := 0; i < reps; i++ {
			group = append(group, db.CycleItem{
				ID:              opts.NewID(),
				UserKey:         sub.UserKey,
				SubjectID:       sub.ID,
				Name:            sub.Name,
				NotebookURL:     sub.NotebookURL,
				Completed:       false,
				Correct:         correct,
				Wrong:           wrong,
				HoursPerSession: sub.TotalHours,
			})
		}
		groups = append(groups, group)
		total += reps
	}

	items := make([]db.CycleItem, 0, total)
	for round := 0; len(items) < total; round++ {
		for _, group := range groups {
			if round < len(group) {
				item := group[round]
				item.CreatedAt = opts.Base.Add(time.Duration(len(items)) * opts.Step)
				items = append(items, item)
			}
		}
	}

	return items
}
