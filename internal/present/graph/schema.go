// Package graph binds the public GraphQL schema to the engagement usecase
// and the request's remote connector. Field names, types and nullability
// reproduce the published SDL exactly; the scalar fields keep GitHub's
// snake_case names.
package graph

import (
	"github.com/graphql-go/graphql"
)

var feedTypeEnum = graphql.NewEnum(graphql.EnumConfig{
	Name:        "FeedType",
	Description: "To select the sort order of the feed",
	Values: graphql.EnumValueConfigMap{
		"HOT": &graphql.EnumValueConfig{Value: "HOT"},
		"NEW": &graphql.EnumValueConfig{Value: "NEW"},
	},
})

var voteTypeEnum = graphql.NewEnum(graphql.EnumConfig{
	Name:        "VoteType",
	Description: "Type of vote",
	Values: graphql.EnumValueConfigMap{
		"UP":     &graphql.EnumValueConfig{Value: "UP"},
		"DOWN":   &graphql.EnumValueConfig{Value: "DOWN"},
		"CANCEL": &graphql.EnumValueConfig{Value: "CANCEL"},
	},
})

var repositoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Repository",
	Fields: graphql.Fields{
		"name":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"full_name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{
			Type:    graphql.String,
			Resolve: resolveRepositoryDescription,
		},
		"html_url":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"stargazers_count": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"open_issues_count": &graphql.Field{
			Type:    graphql.Int,
			Resolve: resolveRepositoryOpenIssues,
		},
		"created_at": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.String),
			Resolve: resolveRepositoryCreatedAt,
		},
	},
})

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"login":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"avatar_url": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"html_url":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var commentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Comment",
	Fields: graphql.Fields{
		"postedBy": &graphql.Field{
			Type:    graphql.NewNonNull(userType),
			Resolve: resolveCommentPostedBy,
		},
		"createdAt": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.String),
			Resolve: resolveCommentCreatedAt,
		},
		"content": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var entryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Entry",
	Fields: graphql.Fields{
		"repository": &graphql.Field{
			Type:    graphql.NewNonNull(repositoryType),
			Resolve: resolveEntryRepository,
		},
		"postedBy": &graphql.Field{
			Type:    graphql.NewNonNull(userType),
			Resolve: resolveEntryPostedBy,
		},
		"createdAt": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.String),
			Resolve: resolveEntryCreatedAt,
		},
		"score": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"comments": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.NewList(commentType)),
			Resolve: resolveEntryComments,
		},
		"commentCount": &graphql.Field{
			Type:    graphql.NewNonNull(graphql.Int),
			Resolve: resolveEntryCommentCount,
		},
	},
})

// NewSchema builds the executable schema. Resolvers pull the per-request
// context (identity, connector, store handle) out of ctx; the schema itself
// is immutable and shared across requests.
func NewSchema() (graphql.Schema, error) {
	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"feed": &graphql.Field{
				Type: graphql.NewList(entryType),
				Args: graphql.FieldConfigArgument{
					"type":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(feedTypeEnum)},
					"after": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: resolveFeed,
			},
			"entry": &graphql.Field{
				Type: entryType,
				Args: graphql.FieldConfigArgument{
					"repoFullName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolveEntry,
			},
			"currentUser": &graphql.Field{
				Type:    userType,
				Resolve: resolveCurrentUser,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"submitRepository": &graphql.Field{
				Type: entryType,
				Args: graphql.FieldConfigArgument{
					"repoFullName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolveSubmitRepository,
			},
			"vote": &graphql.Field{
				Type: entryType,
				Args: graphql.FieldConfigArgument{
					"repoFullName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"type":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(voteTypeEnum)},
				},
				Resolve: resolveVote,
			},
			"comment": &graphql.Field{
				Type: entryType,
				Args: graphql.FieldConfigArgument{
					"repoFullName": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"content":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: resolveComment,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
