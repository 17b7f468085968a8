package model

import "time"

// TreeType is a catalog species. Read-only reference data seeded from the
// TOML catalog; per-user trees snapshot cost and hour thresholds at redeem
// time so later catalog edits do not rewrite history.
type TreeType struct {
	ID             string          `gorm:"column:id;primaryKey;size:64"`
	Name           string          `gorm:"column:name;size:120;not null"`
	ScientificName string          `gorm:"column:scientific_name;size:120"`
	Description    string          `gorm:"column:description;type:text"`
	CareLevel      string          `gorm:"column:care_level;size:32"`
	MaxHeight      string          `gorm:"column:max_height;size:32"`
	Lifespan       string          `gorm:"column:lifespan;size:32"`
	NativeTo       string          `gorm:"column:native_to;size:120"`
	Cost           int64           `gorm:"column:cost;not null;default:100"`
	IsActive       bool            `gorm:"column:is_active;not null;default:true"`
	Stages         []TreeTypeStage `gorm:"foreignKey:TreeTypeID"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (TreeType) TableName() string {
	return "tree_types"
}

// TreeTypeStage is one growth stage of a species, ordered by Position.
type TreeTypeStage struct {
	ID            uint64  `gorm:"primaryKey;autoIncrement"`
	TreeTypeID    string  `gorm:"column:tree_type_id;size:64;index;not null"`
	Position      int     `gorm:"column:position;not null"`
	Name          string  `gorm:"column:name;size:64;not null"`
	HoursRequired float64 `gorm:"column:hours_required;not null"`
	ImageURL      string  `gorm:"column:image_url;size:255"`
	Description   string  `gorm:"column:description;size:255"`
}

func (TreeTypeStage) TableName() string {
	return "tree_type_stages"
}

// MaxStage is the highest reachable stage index for this species.
func (t TreeType) MaxStage() int {
	if len(t.Stages) == 0 {
		return 0
	}
	return len(t.Stages) - 1
}
