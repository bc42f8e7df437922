package githunt

import (
	"time"
)

// FeedType selects the sort order of the feed.
type FeedType string

const (
	FeedHot FeedType = "HOT"
	FeedNew FeedType = "NEW"
)

// VoteType is a voter's declared direction on an entry.
type VoteType string

const (
	VoteUp     VoteType = "UP"
	VoteDown   VoteType = "DOWN"
	VoteCancel VoteType = "CANCEL"
)

// User is a GitHub identity. It is sourced from the remote API (or the OAuth
// profile) and never persisted beyond the session.
// JSON tags follow the GitHub REST field names, which the GraphQL schema
// exposes verbatim.
type User struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// Repository is remote, read-only repository metadata. Description and
// OpenIssuesCount are optional in the GitHub payload.
type Repository struct {
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	Description     *string   `json:"description,omitempty"`
	HTMLURL         string    `json:"html_url"`
	StargazersCount int       `json:"stargazers_count"`
	OpenIssuesCount *int      `json:"open_issues_count,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Entry is a locally tracked submission of a remote repository. Score and
// CommentCount are derived aggregates, recomputed transactionally from the
// vote and comment rows.
type Entry struct {
	ID                 int64     `json:"id"`
	RepositoryFullName string    `json:"repository_full_name"`
	PostedBy           string    `json:"posted_by"`
	CreatedAt          time.Time `json:"created_at"`
	Score              int       `json:"score"`
	CommentCount       int       `json:"comment_count"`
}

// Comment is an append-only comment on an entry.
type Comment struct {
	PostedBy  string    `json:"posted_by"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
}

// Credentials is the session payload: who the caller is plus the OAuth token
// used for remote API calls made on their behalf.
type Credentials struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Direction maps a vote type to its score contribution. CANCEL has no
// contribution; callers remove the vote row instead.
func (v VoteType) Direction() int {
	switch v {
	case VoteUp:
		return 1
	case VoteDown:
		return -1
	}
	return 0
}
