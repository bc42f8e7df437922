package usecase

import (
	"context"
	"strings"

	"github.com/githunt/githunt"
	"github.com/githunt/githunt/internal/domain"
)

const feedPageSize = 10

// EngagementUsecase implements the schema's business rules over the
// engagement store. Authentication and validation run before any store
// mutation, so a rejected request leaves no partial writes.
type EngagementUsecase struct {
	store domain.EngagementStore
}

func NewEngagementUsecase(store domain.EngagementStore) *EngagementUsecase {
	return &EngagementUsecase{store: store}
}

// FeedPage is one page of the feed plus the cursor for the next one.
// NextCursor is empty on the last page.
type FeedPage struct {
	Entries    []githunt.Entry
	NextCursor string
}

func (uc *EngagementUsecase) Feed(ctx context.Context, feed githunt.FeedType, after string) (FeedPage, error) {
	if feed != githunt.FeedHot && feed != githunt.FeedNew {
		return FeedPage{}, domain.Validationf("unknown feed type %q", feed)
	}

	var cursor *domain.FeedCursor
	if after != "" {
		decoded, err := decodeCursor(after)
		if err != nil {
			return FeedPage{}, domain.Validationf("invalid cursor")
		}
		cursor = decoded
	}

	entries, err := uc.store.ListEntries(ctx, feed, cursor, feedPageSize)
	if err != nil {
		return FeedPage{}, err
	}

	page := FeedPage{Entries: entries}
	if len(entries) == feedPageSize {
		page.NextCursor = encodeCursor(feed, entries[len(entries)-1])
	}
	return page, nil
}

func (uc *EngagementUsecase) GetEntry(ctx context.Context, fullName string) (githunt.Entry, error) {
	return uc.store.GetEntry(ctx, fullName)
}

func (uc *EngagementUsecase) Comments(ctx context.Context, fullName string) ([]githunt.Comment, error) {
	return uc.store.ListComments(ctx, fullName)
}

// Submit records a new entry for a repository after verifying it exists
// remotely. Resubmitting an already-submitted repository fails with
// DUPLICATE_ENTRY.
func (uc *EngagementUsecase) Submit(ctx context.Context, user *githunt.User, connector domain.RemoteConnector, fullName string) (githunt.Entry, error) {
	if user == nil {
		return githunt.Entry{}, domain.ErrUnauthenticated
	}
	if !githunt.IsValidFullName(fullName) {
		return githunt.Entry{}, domain.Validationf("invalid repository full name %q", fullName)
	}

	if _, err := connector.GetRepository(ctx, fullName); err != nil {
		return githunt.Entry{}, err
	}

	return uc.store.CreateEntry(ctx, fullName, user.Login)
}

// Vote applies the caller's vote. A new vote supersedes the caller's prior
// one; CANCEL withdraws it.
func (uc *EngagementUsecase) Vote(ctx context.Context, user *githunt.User, fullName string, vote githunt.VoteType) (githunt.Entry, error) {
	if user == nil {
		return githunt.Entry{}, domain.ErrUnauthenticated
	}
	switch vote {
	case githunt.VoteUp, githunt.VoteDown, githunt.VoteCancel:
	default:
		return githunt.Entry{}, domain.Validationf("unknown vote type %q", vote)
	}

	return uc.store.ApplyVote(ctx, fullName, user.Login, vote.Direction())
}

// Comment appends a comment to the entry. Empty content is rejected.
func (uc *EngagementUsecase) Comment(ctx context.Context, user *githunt.User, fullName, content string) (githunt.Entry, error) {
	if user == nil {
		return githunt.Entry{}, domain.ErrUnauthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return githunt.Entry{}, domain.Validationf("comment content must not be empty")
	}

	return uc.store.AddComment(ctx, fullName, user.Login, content)
}
