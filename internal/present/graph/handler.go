package graph

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/labstack/echo/v4"

	"github.com/githunt/githunt/internal/domain"
)

// Handler serves the /graphql endpoint: request envelope parsing, the
// query-size guard, and execution against the shared schema.
type Handler struct {
	schema     graphql.Schema
	queryLimit int
	logger     *slog.Logger
}

func NewHandler(schema graphql.Schema, queryLimit int, logger *slog.Logger) *Handler {
	return &Handler{
		schema:     schema,
		queryLimit: queryLimit,
		logger:     logger,
	}
}

type requestBody struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type errorBody struct {
	Errors []gqlerrors.FormattedError `json:"errors"`
}

// formatDomainError carries the error kind into extensions.code for errors
// raised before the executor runs, matching the shape of resolver errors.
func formatDomainError(err domain.Error) gqlerrors.FormattedError {
	return gqlerrors.FormattedError{
		Message:    err.Error(),
		Extensions: err.Extensions(),
	}
}

// HandleGraphQL accepts both POST (JSON envelope) and GET (query params).
// Oversized queries are rejected at the transport level, before the executor
// sees them; everything past the guard answers 200 with {data, errors}.
func (h *Handler) HandleGraphQL(c echo.Context) error {
	var body requestBody

	if c.Request().Method == http.MethodGet {
		body.Query = c.QueryParam("query")
		body.OperationName = c.QueryParam("operationName")
		if vars := c.QueryParam("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &body.Variables); err != nil {
				return c.JSON(http.StatusBadRequest, errorBody{
					Errors: []gqlerrors.FormattedError{formatDomainError(domain.Validationf("malformed variables: %v", err))},
				})
			}
		}
	} else {
		if err := c.Bind(&body); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{
				Errors: []gqlerrors.FormattedError{formatDomainError(domain.Validationf("malformed request body"))},
			})
		}
	}

	if body.Query == "" {
		return c.JSON(http.StatusBadRequest, errorBody{
			Errors: []gqlerrors.FormattedError{formatDomainError(domain.Validationf("request must include a query"))},
		})
	}

	if len(body.Query) > h.queryLimit {
		// None of the app's queries come close to this size; this is
		// someone probing with an expensive query.
		h.logger.Warn("rejected oversized graphql query",
			slog.Int("length", len(body.Query)),
			slog.Int("limit", h.queryLimit),
		)
		return c.JSON(http.StatusRequestEntityTooLarge, errorBody{
			Errors: []gqlerrors.FormattedError{formatDomainError(domain.ErrQueryTooLarge)},
		})
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  body.Query,
		VariableValues: body.Variables,
		OperationName:  body.OperationName,
		Context:        c.Request().Context(),
	})

	return c.JSON(http.StatusOK, result)
}
