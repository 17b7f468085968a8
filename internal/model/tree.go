package model

import "time"

type MilestoneKind string

const (
	MilestonePlanted       MilestoneKind = "PLANTED"
	MilestoneStageChange   MilestoneKind = "STAGE_CHANGE"
	MilestoneWifiGrowth    MilestoneKind = "WIFI_GROWTH"
	MilestonePerfectHealth MilestoneKind = "PERFECT_HEALTH"
)

// Tree is a user's planted tree. CurrentStage is always derived from
// WifiHoursAccumulated (never set directly); HealthScore decays with time
// since LastWatered and is refreshed on read paths.
type Tree struct {
	ID                   uint64          `gorm:"primaryKey;autoIncrement"`
	UserUID              string          `gorm:"column:user_uid;size:128;index;not null"`
	TreeTypeID           string          `gorm:"column:tree_type_id;size:64;not null"`
	Species              string          `gorm:"column:species;size:64;not null"`
	Name                 string          `gorm:"column:name;size:120;not null"`
	PlantedDate          time.Time       `gorm:"column:planted_date;not null"`
	LastWatered          time.Time       `gorm:"column:last_watered;not null"`
	CurrentStage         int             `gorm:"column:current_stage;not null;default:0"`
	WifiHoursAccumulated float64         `gorm:"column:wifi_hours_accumulated;not null;default:0"`
	TotalHoursRequired   float64         `gorm:"column:total_hours_required;not null;default:6"`
	HealthScore          int             `gorm:"column:health_score;not null;default:100"`
	Milestones           []TreeMilestone `gorm:"foreignKey:TreeID"`
	CreatedAt            time.Time       `gorm:"autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime"`
}

func (Tree) TableName() string {
	return "trees"
}

// TreeMilestone is an append-only event in a tree's history.
type TreeMilestone struct {
	ID          uint64        `gorm:"primaryKey;autoIncrement"`
	TreeID      uint64        `gorm:"column:tree_id;index;not null"`
	Kind        MilestoneKind `gorm:"column:kind;size:32;not null"`
	Description string        `gorm:"column:description;size:255"`
	Stage       *int          `gorm:"column:stage"`
	Hours       *float64      `gorm:"column:hours"`
	CreatedAt   time.Time     `gorm:"autoCreateTime"`
}

func (TreeMilestone) TableName() string {
	return "tree_milestones"
}
