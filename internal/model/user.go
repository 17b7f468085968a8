package model

import "time"

// User holds the points balance and the rolling connected-time counters.
// Counters are minutes; day/week/month reset at their calendar boundaries,
// total never resets.
type User struct {
	UID                string    `gorm:"column:uid;primaryKey;size:128"`
	Points             int64     `gorm:"column:points;not null;default:0"`
	TreesPlanted       int       `gorm:"column:trees_planted;not null;default:0"`
	DayTimeConnected   float64   `gorm:"column:day_time_connected;not null;default:0"`
	WeekTimeConnected  float64   `gorm:"column:week_time_connected;not null;default:0"`
	MonthTimeConnected float64   `gorm:"column:month_time_connected;not null;default:0"`
	TotalTimeConnected float64   `gorm:"column:total_time_connected;not null;default:0"`
	LastDayReset       time.Time `gorm:"column:last_day_reset"`
	LastWeekReset      time.Time `gorm:"column:last_week_reset"`
	LastMonthReset     time.Time `gorm:"column:last_month_reset"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
