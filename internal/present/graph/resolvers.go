package graph

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/githunt/githunt"
	"github.com/githunt/githunt/internal/domain"
	"github.com/githunt/githunt/internal/usecase"
)

func engagement(p graphql.ResolveParams) (*usecase.EngagementUsecase, *domain.RequestContext) {
	rc := domain.RequestContextFrom(p.Context)
	return usecase.NewEngagementUsecase(rc.Engagement), rc
}

// --- Query ---

func resolveFeed(p graphql.ResolveParams) (interface{}, error) {
	uc, _ := engagement(p)

	feed := githunt.FeedType(p.Args["type"].(string))
	after, _ := p.Args["after"].(string)

	page, err := uc.Feed(p.Context, feed, after)
	if err != nil {
		return nil, err
	}
	return page.Entries, nil
}

func resolveEntry(p graphql.ResolveParams) (interface{}, error) {
	uc, _ := engagement(p)

	entry, err := uc.GetEntry(p.Context, p.Args["repoFullName"].(string))
	if errors.Is(err, domain.ErrNotFound) {
		// Not yet submitted is an ordinary answer, not an error.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func resolveCurrentUser(p graphql.ResolveParams) (interface{}, error) {
	rc := domain.RequestContextFrom(p.Context)
	if rc.User == nil {
		return nil, nil
	}
	return *rc.User, nil
}

// --- Mutation ---

func resolveSubmitRepository(p graphql.ResolveParams) (interface{}, error) {
	uc, rc := engagement(p)
	return orNil(uc.Submit(p.Context, rc.User, rc.Connector, p.Args["repoFullName"].(string)))
}

func resolveVote(p graphql.ResolveParams) (interface{}, error) {
	uc, rc := engagement(p)
	vote := githunt.VoteType(p.Args["type"].(string))
	return orNil(uc.Vote(p.Context, rc.User, p.Args["repoFullName"].(string), vote))
}

func resolveComment(p graphql.ResolveParams) (interface{}, error) {
	uc, rc := engagement(p)
	return orNil(uc.Comment(p.Context, rc.User, p.Args["repoFullName"].(string), p.Args["content"].(string)))
}

// --- Entry ---

func resolveEntryRepository(p graphql.ResolveParams) (interface{}, error) {
	entry := p.Source.(githunt.Entry)
	rc := domain.RequestContextFrom(p.Context)
	return rc.Connector.GetRepository(p.Context, entry.RepositoryFullName)
}

func resolveEntryPostedBy(p graphql.ResolveParams) (interface{}, error) {
	entry := p.Source.(githunt.Entry)
	rc := domain.RequestContextFrom(p.Context)
	return rc.Connector.GetUser(p.Context, entry.PostedBy)
}

func resolveEntryCreatedAt(p graphql.ResolveParams) (interface{}, error) {
	return p.Source.(githunt.Entry).CreatedAt.Format(time.RFC3339), nil
}

func resolveEntryCommentCount(p graphql.ResolveParams) (interface{}, error) {
	return p.Source.(githunt.Entry).CommentCount, nil
}

func resolveEntryComments(p graphql.ResolveParams) (interface{}, error) {
	entry := p.Source.(githunt.Entry)
	uc, _ := engagement(p)
	return uc.Comments(p.Context, entry.RepositoryFullName)
}

// --- Comment ---

func resolveCommentPostedBy(p graphql.ResolveParams) (interface{}, error) {
	comment := p.Source.(githunt.Comment)
	rc := domain.RequestContextFrom(p.Context)
	return rc.Connector.GetUser(p.Context, comment.PostedBy)
}

func resolveCommentCreatedAt(p graphql.ResolveParams) (interface{}, error) {
	return p.Source.(githunt.Comment).CreatedAt.Format(time.RFC3339), nil
}

// --- Repository ---

func resolveRepositoryDescription(p graphql.ResolveParams) (interface{}, error) {
	repo := p.Source.(githunt.Repository)
	if repo.Description == nil {
		return nil, nil
	}
	return *repo.Description, nil
}

func resolveRepositoryOpenIssues(p graphql.ResolveParams) (interface{}, error) {
	repo := p.Source.(githunt.Repository)
	if repo.OpenIssuesCount == nil {
		return nil, nil
	}
	return *repo.OpenIssuesCount, nil
}

func resolveRepositoryCreatedAt(p graphql.ResolveParams) (interface{}, error) {
	return p.Source.(githunt.Repository).CreatedAt.Format(time.RFC3339), nil
}

// orNil keeps mutation results nullable: the SDL types them as Entry, so a
// failed mutation yields null plus the error, never a partial object.
func orNil(entry githunt.Entry, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return entry, nil
}
