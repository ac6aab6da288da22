// Package server wires the GraphQL schema into an HTTP handler.
package server

import (
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// Options controls which routes the router exposes.
type Options struct {
	// Path is where the GraphQL endpoint is mounted, e.g. "/graphql".
	Path string
	// Playground serves the GraphQL playground on GET requests to Path.
	Playground bool
	Logger     *zap.Logger
}

// NewRouter returns a handler exposing:
//   - POST {Path}: GraphQL queries and mutations
//   - GET {Path}: GraphQL playground (if enabled)
//   - GET /healthz: liveness check
func NewRouter(schema *graphql.Schema, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(requestID(), accessLog(logger), gin.Recovery())

	r.POST(opts.Path, gin.WrapH(&relay.Handler{Schema: schema}))
	if opts.Playground {
		r.GET(opts.Path, gin.WrapH(playground.Handler("tweetql", opts.Path)))
	}
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

// requestID propagates the caller's request ID or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			generated, err := gonanoid.New()
			if err == nil {
				id = generated
			}
		}
		if id != "" {
			c.Set(RequestIDHeader, id)
			c.Header(RequestIDHeader, id)
		}
		c.Next()
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(RequestIDHeader)),
		)
	}
}
