package server

import (
	"strings"
	"time"

	"party-hub/internal/db"
)

// Explicit read-only projections. Every flattened field names its source
// record; nullable sources map to pointer or zero-value fields.

type userSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

func summarizeUser(user *db.User) userSummary {
	if user == nil {
		return userSummary{}
	}
	full := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if full == "" {
		full = user.Username
	}
	return userSummary{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		FullName:  full,
	}
}

type partySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type partyDetail struct {
	db.Party
	TotalRSVPs     int64 `json:"total_rsvps"`
	AttendingCount int64 `json:"attending_count"`
	IsPast         bool  `json:"is_past"`
}

type scoreDetail struct {
	db.GameScore
	User      userSummary `json:"user_detail"`
	PartyName string      `json:"party_name"`
}

type userBadgeDetail struct {
	ID                  uint        `json:"id"`
	User                userSummary `json:"user"`
	BadgeID             uint        `json:"badge"`
	BadgeName           string      `json:"badge_name"`
	BadgeDescription    string      `json:"badge_description"`
	BadgeIcon           string      `json:"badge_icon"`
	BadgeColor          string      `json:"badge_color"`
	BadgePointsRequired int         `json:"badge_points_required"`
	PartyID             uint        `json:"party"`
	PartyName           string      `json:"party_name"`
	EarnedAt            time.Time   `json:"earned_at"`
}

func projectUserBadge(award db.UserBadge, badge db.Badge, user *db.User, partyName string) userBadgeDetail {
	return userBadgeDetail{
		ID:                  award.ID,
		User:                summarizeUser(user),
		BadgeID:             badge.ID,
		BadgeName:           badge.Name,
		BadgeDescription:    badge.Description,
		BadgeIcon:           badge.Icon,
		BadgeColor:          badge.Color,
		BadgePointsRequired: badge.PointsRequired,
		PartyID:             award.PartyID,
		PartyName:           partyName,
		EarnedAt:            award.EarnedAt,
	}
}

type photoDetail struct {
	db.PartyPhoto
	LikesCount int64       `json:"likes_count"`
	Liked      bool        `json:"liked"`
	Uploader   userSummary `json:"uploader"`
}

// publicQuestion hides the answer key from gameplay responses.
type publicQuestion struct {
	ID       uint     `json:"id"`
	Category string   `json:"category"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Points   int      `json:"points"`
}

func projectQuestion(q db.TriviaQuestion) publicQuestion {
	return publicQuestion{
		ID:       q.ID,
		Category: q.Category,
		Question: q.Question,
		Options:  q.OptionList(),
		Points:   q.Points,
	}
}
