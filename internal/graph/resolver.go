package graph

import (
	"bytes"
	"context"
	_ "embed"

	"github.com/graph-gophers/graphql-go"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/woonki/tweetql/internal/movies"
	"github.com/woonki/tweetql/internal/tweetcore"
)

//go:embed schema.graphqls
var sdl string

// MovieSource is the upstream movie listing.
type MovieSource interface {
	List(ctx context.Context) ([]*movies.Movie, error)
	Get(ctx context.Context, id string) (*movies.Movie, error)
}

// Resolver is the root resolver for the GraphQL schema.
// It serves both Query and Mutation fields.
type Resolver struct {
	Core   *tweetcore.Core
	Movies MovieSource
}

// NewSchema parses the embedded SDL and binds it to r. Binding fails if any
// schema field lacks a resolver of a compatible Go type.
func NewSchema(r *Resolver, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	opts = append([]graphql.SchemaOpt{graphql.UseFieldResolvers()}, opts...)
	return graphql.ParseSchema(sdl, r, opts...)
}

// SDL returns the raw schema source.
func SDL() string {
	return sdl
}

// FormatSDL returns the schema as printed by gqlparser's formatter.
func FormatSDL() (string, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphqls", Input: sdl})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	f := formatter.NewFormatter(&buf, formatter.WithIndent("  "))
	f.FormatSchema(s)

	return buf.String(), nil
}
