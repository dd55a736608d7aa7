package service

import (
	"time"

	"github.com/estudociclo/internal/db"
	"github.com/google/uuid"
)

// 会话历史的动作标签，作为数据持久化，不做本地化
const (
	actionSessionInitialized = "session initialized"
	actionSessionCompleted   = "session completed"
	actionSessionReopened    = "session reopened"
	actionScoreUpdated       = "score updated"
	actionLinkUpdated        = "notebook link updated"
)

func newHistoryEntry(itemID string, ts time.Time, action, details, entryType string) db.HistoryEntry {
	return db.HistoryEntry{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		Timestamp: ts,
		Action:    action,
		Details:   details,
		Type:      entryType,
	}
}
