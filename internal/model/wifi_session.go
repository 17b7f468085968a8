package model

import "time"

// WifiSession is one continuous campus-WiFi attachment. EndTime is null
// while the session is open; at most one open session exists per user.
// Rows are append-only history.
type WifiSession struct {
	ID            uint64     `gorm:"primaryKey;autoIncrement"`
	UserUID       string     `gorm:"column:user_uid;size:128;index:idx_sessions_user_end;not null"`
	SSID          string     `gorm:"column:ssid;size:64;not null"`
	BSSID         string     `gorm:"column:bssid;size:32"`
	StartTime     time.Time  `gorm:"column:start_time;not null"`
	EndTime       *time.Time `gorm:"column:end_time;index:idx_sessions_user_end"`
	PointsAwarded int64      `gorm:"column:points_awarded;not null;default:0"`
	CreatedAt     time.Time  `gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime"`
}

func (WifiSession) TableName() string {
	return "wifi_sessions"
}
