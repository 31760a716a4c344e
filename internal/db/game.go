package db

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// GameScore holds the running point total and derived level for one user in
// one party. Level is always total_points/100 + 1; it is recomputed on every
// mutation, never tracked incrementally.
type GameScore struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null;uniqueIndex:idx_game_scores_user_party" json:"user"`
	User        *User     `json:"-"`
	PartyID     uint      `gorm:"index;not null;uniqueIndex:idx_game_scores_user_party" json:"party"`
	TotalPoints int       `gorm:"not null;default:0" json:"total_points"`
	Level       int       `gorm:"not null;default:1" json:"level"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

type Badge struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description    string `gorm:"not null;default:''" json:"description"`
	Icon           string `gorm:"size:10;not null;default:''" json:"icon"`
	PointsRequired int    `gorm:"not null" json:"points_required"`
	Color          string `gorm:"size:7;not null;default:'#FFD700'" json:"color"`
	IsActive       bool   `gorm:"not null;default:true" json:"is_active"`
}

// UserBadge records one earned badge. The (user, badge, party) unique index is
// the idempotency mechanism for awarding; rows are never mutated.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"index;not null;uniqueIndex:idx_user_badges_user_badge_party" json:"user"`
	User     *User     `json:"-"`
	BadgeID  uint      `gorm:"index;not null;uniqueIndex:idx_user_badges_user_badge_party" json:"badge"`
	Badge    *Badge    `json:"-"`
	PartyID  uint      `gorm:"index;not null;uniqueIndex:idx_user_badges_user_badge_party" json:"party"`
	EarnedAt time.Time `gorm:"not null;autoCreateTime" json:"earned_at"`
}

// TriviaQuestion is a multiple-choice item worth a fixed number of points.
// PartyID nil means the question is global and visible to every party.
// Options holds 2-4 non-empty strings as a JSON array; CorrectAnswer indexes
// into it.
type TriviaQuestion struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	PartyID       *uint          `gorm:"index" json:"party"`
	Category      string         `gorm:"size:100;not null;default:'Personal'" json:"category"`
	Question      string         `gorm:"not null" json:"question"`
	Options       datatypes.JSON `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer int            `gorm:"not null" json:"correct_answer"`
	Points        int            `gorm:"not null;default:20" json:"points"`
	IsActive      bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

// OptionList decodes the stored options array. A corrupt column yields nil.
func (q *TriviaQuestion) OptionList() []string {
	var options []string
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil
	}
	return options
}

// EncodeOptions marshals options into the JSON column format.
func EncodeOptions(options []string) (datatypes.JSON, error) {
	raw, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
