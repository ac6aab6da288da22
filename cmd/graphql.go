package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/woonki/tweetql/internal/graph"
)

var (
	queryJSON       bool
	queryVariables  string
	queryOperation  string
	querySchemaOnly bool
)

var graphqlCmd = &cobra.Command{
	Use:     "graphql <query>",
	Aliases: []string{"query"},
	Short:   "Execute a GraphQL query or mutation",
	Long: `Execute a GraphQL query or mutation in-process against freshly seeded data.

Mutations only affect this invocation; use 'tweetql serve' for a running API.

Examples:
  # List all tweets with their authors
  tweetql graphql '{ allTweets { id text author { fullName } } }'

  # Get a specific tweet
  tweetql graphql '{ tweet(id: "1") { text } }'

  # Post a tweet
  tweetql graphql 'mutation { postTweet(text: "hello", userId: "1") { id } }'

  # Use variables
  tweetql graphql -v '{"id": "2"}' 'query GetTweet($id: ID) { tweet(id: $id) { text } }'

  # Read from stdin
  cat query.graphql | tweetql graphql

  # Print the schema
  tweetql graphql --schema`,
	Args: func(cmd *cobra.Command, args []string) error {
		if querySchemaOnly {
			return nil
		}
		if len(args) > 1 {
			return fmt.Errorf("accepts at most 1 argument (the GraphQL query)")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if querySchemaOnly {
			return printSchema(cmd.OutOrStdout())
		}

		var query string
		if len(args) == 1 {
			query = args[0]
		} else {
			stdinQuery, err := readFromStdin()
			if err != nil {
				return err
			}
			if stdinQuery == "" {
				return fmt.Errorf("no query provided (pass as argument or pipe to stdin)")
			}
			query = stdinQuery
		}

		var variables map[string]interface{}
		if queryVariables != "" {
			if err := json.Unmarshal([]byte(queryVariables), &variables); err != nil {
				return fmt.Errorf("invalid variables JSON: %w", err)
			}
		}

		core, err := newCore()
		if err != nil {
			return err
		}
		defer core.Close()

		schema, err := graph.NewSchema(newResolver(core))
		if err != nil {
			return fmt.Errorf("binding schema: %w", err)
		}

		result, err := executeQuery(cmd.Context(), schema, query, variables, queryOperation)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if queryJSON {
			fmt.Fprintln(out, string(result))
		} else {
			prettyPrint(out, result, isTerminal(os.Stdout))
		}

		return nil
	},
}

// readFromStdin reads the query from stdin if data is piped in.
func readFromStdin() (string, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("checking stdin: %w", err)
	}

	// A terminal means nothing was piped.
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// executeQuery runs a GraphQL query against the schema.
// On success, it returns just the data portion of the response.
func executeQuery(ctx context.Context, schema *graphql.Schema, query string, variables map[string]interface{}, operationName string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	resp := schema.Exec(ctx, query, operationName, variables)
	if len(resp.Errors) > 0 {
		return nil, formatGraphQLErrors(resp.Errors)
	}

	return resp.Data, nil
}

// formatGraphQLErrors formats GraphQL errors into a single error.
func formatGraphQLErrors(errs []*gqlerrors.QueryError) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return fmt.Errorf("graphql: %s", describeQueryError(errs[0]))
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, describeQueryError(e))
	}
	return fmt.Errorf("graphql errors:\n  %s", strings.Join(msgs, "\n  "))
}

func describeQueryError(e *gqlerrors.QueryError) string {
	if code, ok := e.Extensions["code"]; ok {
		return fmt.Sprintf("%s [%v]", e.Message, code)
	}
	return e.Message
}

// prettyPrint outputs the JSON indented, with colors when writing to a terminal.
func prettyPrint(w io.Writer, data []byte, color bool) {
	out := pretty.Pretty(data)
	if color {
		out = pretty.Color(out, nil)
	}
	fmt.Fprint(w, string(out))
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// printSchema outputs the GraphQL schema.
func printSchema(w io.Writer) error {
	s, err := graph.FormatSDL()
	if err != nil {
		return fmt.Errorf("formatting schema: %w", err)
	}
	fmt.Fprint(w, s)
	return nil
}

func init() {
	graphqlCmd.Flags().BoolVar(&queryJSON, "json", false, "Output raw JSON (no formatting)")
	graphqlCmd.Flags().StringVarP(&queryVariables, "variables", "v", "", "Query variables as JSON string")
	graphqlCmd.Flags().StringVarP(&queryOperation, "operation", "o", "", "Operation name (for multi-operation documents)")
	graphqlCmd.Flags().BoolVar(&querySchemaOnly, "schema", false, "Print the GraphQL schema and exit")
	rootCmd.AddCommand(graphqlCmd)
}
