package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	// Session settings (the durable "current user" record)
	SettingKeySessionUserID    = "session_user_id"
	SettingKeySessionUserEmail = "session_user_email"
	SettingKeySessionUserName  = "session_user_name"

	// Trending sync bookkeeping
	SettingKeyTrendingSyncLastAt      = "trending_sync_last_at"
	SettingKeyTrendingSyncLastStatus  = "trending_sync_last_status"
	SettingKeyTrendingSyncLastMessage = "trending_sync_last_message"
	SettingKeyTrendingSyncBooksSynced = "trending_sync_books_synced"
)
