package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/githunt/githunt"
	"github.com/githunt/githunt/internal/domain"
	"github.com/githunt/githunt/internal/infra/database/models"
)

// EngagementRepository persists entries, votes and comments in Postgres.
// Derived counters (score, comment_count) are recomputed from the underlying
// rows inside the same transaction, never adjusted incrementally, so two
// concurrent mutations on one entry cannot tear them. The entry row lock
// serializes mutations per entry.
type EngagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

func (r *EngagementRepository) GetEntry(ctx context.Context, fullName string) (githunt.Entry, error) {
	var m models.Entry
	err := r.db.WithContext(ctx).
		Where("repository_full_name = ?", fullName).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return githunt.Entry{}, domain.NotFoundf("no entry for %s", fullName)
	}
	if err != nil {
		return githunt.Entry{}, errors.Wrap(err, "EngagementRepository.GetEntry")
	}
	return toEntry(m), nil
}

func (r *EngagementRepository) ListEntries(ctx context.Context, feed githunt.FeedType, after *domain.FeedCursor, limit int) ([]githunt.Entry, error) {
	q := r.db.WithContext(ctx).Model(&models.Entry{})

	switch feed {
	case githunt.FeedNew:
		if after != nil {
			q = q.Where("(created_at, id) < (?, ?)", time.Unix(0, after.Rank), after.ID)
		}
		q = q.Order("created_at DESC").Order("id DESC")
	default:
		if after != nil {
			q = q.Where("(score, id) < (?, ?)", after.Rank, after.ID)
		}
		q = q.Order("score DESC").Order("id DESC")
	}

	var ms []models.Entry
	if err := q.Limit(limit).Find(&ms).Error; err != nil {
		return nil, errors.Wrap(err, "EngagementRepository.ListEntries")
	}

	entries := make([]githunt.Entry, 0, len(ms))
	for _, m := range ms {
		entries = append(entries, toEntry(m))
	}
	return entries, nil
}

func (r *EngagementRepository) CreateEntry(ctx context.Context, fullName, postedBy string) (githunt.Entry, error) {
	m := models.Entry{
		RepositoryFullName: fullName,
		PostedBy:           postedBy,
		CreatedAt:          time.Now(),
	}
	err := r.db.WithContext(ctx).Create(&m).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return githunt.Entry{}, domain.Error{
			Kind:    domain.KindDuplicateEntry,
			Message: "entry for " + fullName + " already exists",
		}
	}
	if err != nil {
		return githunt.Entry{}, errors.Wrap(err, "EngagementRepository.CreateEntry")
	}
	return toEntry(m), nil
}

func (r *EngagementRepository) ApplyVote(ctx context.Context, fullName, voter string, direction int) (githunt.Entry, error) {
	var result githunt.Entry

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := lockEntry(tx, fullName)
		if err != nil {
			return err
		}

		if direction == 0 {
			err = tx.Where("entry_id = ? AND voter = ?", entry.ID, voter).
				Delete(&models.Vote{}).Error
		} else {
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "entry_id"}, {Name: "voter"}},
				DoUpdates: clause.Assignments(map[string]any{"direction": direction}),
			}).Create(&models.Vote{
				EntryID:   entry.ID,
				Voter:     voter,
				Direction: direction,
				CreatedAt: time.Now(),
			}).Error
		}
		if err != nil {
			return err
		}

		var score int64
		err = tx.Model(&models.Vote{}).
			Where("entry_id = ?", entry.ID).
			Select("COALESCE(SUM(direction), 0)").
			Scan(&score).Error
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Entry{}).
			Where("id = ?", entry.ID).
			Update("score", score).Error; err != nil {
			return err
		}

		entry.Score = int(score)
		result = toEntry(entry)
		return nil
	})
	if err != nil {
		return githunt.Entry{}, wrapTxErr(err, "EngagementRepository.ApplyVote")
	}

	return result, nil
}

func (r *EngagementRepository) AddComment(ctx context.Context, fullName, postedBy, content string) (githunt.Entry, error) {
	var result githunt.Entry

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := lockEntry(tx, fullName)
		if err != nil {
			return err
		}

		comment := models.Comment{
			EntryID:   entry.ID,
			PostedBy:  postedBy,
			Content:   content,
			CreatedAt: time.Now(),
		}
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		var count int64
		err = tx.Model(&models.Comment{}).
			Where("entry_id = ?", entry.ID).
			Count(&count).Error
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Entry{}).
			Where("id = ?", entry.ID).
			Update("comment_count", count).Error; err != nil {
			return err
		}

		entry.CommentCount = int(count)
		result = toEntry(entry)
		return nil
	})
	if err != nil {
		return githunt.Entry{}, wrapTxErr(err, "EngagementRepository.AddComment")
	}

	return result, nil
}

func (r *EngagementRepository) ListComments(ctx context.Context, fullName string) ([]githunt.Comment, error) {
	var entry models.Entry
	err := r.db.WithContext(ctx).
		Where("repository_full_name = ?", fullName).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundf("no entry for %s", fullName)
	}
	if err != nil {
		return nil, errors.Wrap(err, "EngagementRepository.ListComments")
	}

	var ms []models.Comment
	err = r.db.WithContext(ctx).
		Where("entry_id = ?", entry.ID).
		Order("created_at ASC").Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, errors.Wrap(err, "EngagementRepository.ListComments")
	}

	comments := make([]githunt.Comment, 0, len(ms))
	for _, m := range ms {
		comments = append(comments, githunt.Comment{
			PostedBy:  m.PostedBy,
			CreatedAt: m.CreatedAt,
			Content:   m.Content,
		})
	}
	return comments, nil
}

// lockEntry fetches the entry row under FOR UPDATE, serializing concurrent
// vote/comment mutations on the same entry.
func lockEntry(tx *gorm.DB, fullName string) (models.Entry, error) {
	var entry models.Entry
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("repository_full_name = ?", fullName).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Entry{}, domain.NotFoundf("no entry for %s", fullName)
	}
	return entry, err
}

// wrapTxErr keeps domain errors intact so callers can classify them, and
// wraps everything else with the operation name.
func wrapTxErr(err error, op string) error {
	var de domain.Error
	if errors.As(err, &de) {
		return de
	}
	return errors.Wrap(err, op)
}

func toEntry(m models.Entry) githunt.Entry {
	return githunt.Entry{
		ID:                 m.ID,
		RepositoryFullName: m.RepositoryFullName,
		PostedBy:           m.PostedBy,
		CreatedAt:          m.CreatedAt,
		Score:              m.Score,
		CommentCount:       m.CommentCount,
	}
}
