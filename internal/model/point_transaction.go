package model

import "time"

type PointType string

const (
	PointTypeAttendance  PointType = "ATTENDANCE"
	PointTypePurchase    PointType = "TREE_PURCHASE"
	PointTypeRedemption  PointType = "TREE_REDEMPTION"
	PointTypeAchievement PointType = "ACHIEVEMENT"
	PointTypeBonus       PointType = "BONUS"
)

// PointTransaction is an immutable ledger row. Positive amounts are earns,
// negative are spends. Corrections are compensating rows, never edits.
type PointTransaction struct {
	ID           uint64     `gorm:"primaryKey;autoIncrement"`
	TxnUID       string     `gorm:"column:txn_uid;size:36;uniqueIndex;not null"`
	UserUID      string     `gorm:"column:user_uid;size:128;index;not null"`
	Amount       int64      `gorm:"column:amount;not null"`
	Type         PointType  `gorm:"column:type;size:32;not null"`
	Description  string     `gorm:"column:description;size:255"`
	SessionID    *uint64    `gorm:"column:session_id;index"`
	TreeID       *uint64    `gorm:"column:tree_id;index"`
	HoursAwarded *int       `gorm:"column:hours_awarded"`
	SessionStart *time.Time `gorm:"column:session_start"`
	SessionEnd   *time.Time `gorm:"column:session_end"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;index"`
}

func (PointTransaction) TableName() string {
	return "point_transactions"
}
