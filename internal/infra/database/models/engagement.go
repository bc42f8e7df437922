package models

import (
	"time"
)

// Entry is a submitted repository. Score and CommentCount are derived
// aggregates; they are only written inside the same transaction that touches
// the vote/comment rows they summarize.
type Entry struct {
	ID                 int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	RepositoryFullName string    `json:"repository_full_name" gorm:"type:text;not null;index:entry_repository_full_name,unique"`
	PostedBy           string    `json:"posted_by" gorm:"type:text;not null"`
	Score              int       `json:"score" gorm:"not null;default:0;index"`
	CommentCount       int       `json:"comment_count" gorm:"not null;default:0"`
	CreatedAt          time.Time `json:"created_at" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

// Vote is one voter's current direction on one entry. The composite primary
// key enforces at most one active vote per (entry, voter) pair.
type Vote struct {
	EntryID   int64     `json:"entry_id" gorm:"primaryKey;autoIncrement:false"`
	Entry     Entry     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Voter     string    `json:"voter" gorm:"type:text;primaryKey"`
	Direction int       `json:"direction" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	EntryID   int64     `json:"entry_id" gorm:"not null;index"`
	Entry     Entry     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	PostedBy  string    `json:"posted_by" gorm:"type:text;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}
