package graph

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleGraphiQL serves the interactive exploration page.
func (h *Handler) HandleGraphiQL(c echo.Context) error {
	return c.HTML(http.StatusOK, graphiqlPage)
}

const graphiqlPage = `<!DOCTYPE html>
<html>
<head>
  <title>GitHunt GraphiQL</title>
  <style>html, body, #graphiql { height: 100%; margin: 0; }</style>
  <link rel="stylesheet" href="https://unpkg.com/graphiql@3/graphiql.min.css" />
</head>
<body>
  <div id="graphiql"></div>
  <script crossorigin src="https://unpkg.com/react@18/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom@18/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql@3/graphiql.min.js"></script>
  <script>
    ReactDOM.createRoot(document.getElementById('graphiql')).render(
      React.createElement(GraphiQL, {
        fetcher: GraphiQL.createFetcher({ url: '/graphql' }),
      })
    );
  </script>
</body>
</html>`
