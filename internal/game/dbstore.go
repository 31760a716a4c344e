package game

import (
	"errors"

	"party-hub/internal/db"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBStore implements Store on gorm/Postgres. Score mutations run inside a
// transaction with a row lock so two concurrent additions sum instead of
// overwriting each other; award inserts go through the unique index with
// ON CONFLICT DO NOTHING.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(conn *gorm.DB) *DBStore {
	return &DBStore{db: conn}
}

func (s *DBStore) Score(userID, partyID uint) (db.GameScore, error) {
	var score db.GameScore
	err := s.db.Where("user_id = ? AND party_id = ?", userID, partyID).First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.GameScore{}, ErrScoreNotFound
	}
	return score, err
}

func (s *DBStore) MutateScore(userID, partyID uint, mutate func(*db.GameScore)) (db.GameScore, error) {
	var score db.GameScore
	err := s.db.Transaction(func(tx *gorm.DB) error {
		lookup := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND party_id = ?", userID, partyID).
			First(&score)
		if errors.Is(lookup.Error, gorm.ErrRecordNotFound) {
			fresh := db.GameScore{UserID: userID, PartyID: partyID, TotalPoints: 0, Level: 1}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&fresh).Error; err != nil && !isUniqueViolation(err) {
				return err
			}
			// A concurrent insert may have won; lock whichever row exists now.
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ? AND party_id = ?", userID, partyID).
				First(&score).Error; err != nil {
				return err
			}
		} else if lookup.Error != nil {
			return lookup.Error
		}
		mutate(&score)
		return tx.Save(&score).Error
	})
	return score, err
}

func (s *DBStore) PartyScores(partyID uint) ([]db.GameScore, error) {
	var scores []db.GameScore
	err := s.db.Where("party_id = ?", partyID).Order("total_points DESC").Find(&scores).Error
	return scores, err
}

func (s *DBStore) CountHigher(partyID uint, points int) (int, error) {
	var count int64
	err := s.db.Model(&db.GameScore{}).
		Where("party_id = ? AND total_points > ?", partyID, points).
		Count(&count).Error
	return int(count), err
}

func (s *DBStore) CountPlayers(partyID uint) (int, error) {
	var count int64
	err := s.db.Model(&db.GameScore{}).Where("party_id = ?", partyID).Count(&count).Error
	return int(count), err
}

func (s *DBStore) ActiveBadges() ([]db.Badge, error) {
	var badges []db.Badge
	err := s.db.Where("is_active = ?", true).Order("points_required ASC").Find(&badges).Error
	return badges, err
}

func (s *DBStore) AwardedBadgeIDs(userID, partyID uint) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&db.UserBadge{}).
		Where("user_id = ? AND party_id = ?", userID, partyID).
		Pluck("badge_id", &ids).Error
	return ids, err
}

func (s *DBStore) AwardCounts(partyID uint) (map[uint]int, error) {
	type row struct {
		UserID uint
		Count  int
	}
	var rows []row
	err := s.db.Model(&db.UserBadge{}).
		Select("user_id, COUNT(*) AS count").
		Where("party_id = ?", partyID).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int, len(rows))
	for _, r := range rows {
		counts[r.UserID] = r.Count
	}
	return counts, nil
}

func (s *DBStore) CreateAward(userID, badgeID, partyID uint) (bool, error) {
	award := db.UserBadge{UserID: userID, BadgeID: badgeID, PartyID: partyID}
	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&award)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *DBStore) ActiveQuestions(partyID uint) ([]db.TriviaQuestion, error) {
	var questions []db.TriviaQuestion
	err := s.db.Where("is_active = ?", true).
		Where("party_id IS NULL OR party_id = ?", partyID).
		Order("category, question").
		Find(&questions).Error
	return questions, err
}

// isUniqueViolation matches both the raw Postgres error and the translated
// form gorm produces when TranslateError is on.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
