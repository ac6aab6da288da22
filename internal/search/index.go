// Package search provides full-text search over tweet text using Bleve.
package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/woonki/tweetql/internal/tweet"
)

// Index wraps a Bleve in-memory index for searching tweets.
type Index struct {
	index bleve.Index
}

// tweetDocument is the structure stored in the Bleve index.
type tweetDocument struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	UserID string `json:"user_id,omitempty"`
}

// NewIndex creates a new in-memory Bleve index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}

	return &Index{index: idx}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "standard"

	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	keywordFieldMapping.IncludeInAll = false

	tweetMapping := bleve.NewDocumentMapping()
	tweetMapping.AddFieldMappingsAt("id", keywordFieldMapping)
	tweetMapping.AddFieldMappingsAt("text", textFieldMapping)
	tweetMapping.AddFieldMappingsAt("user_id", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = tweetMapping
	indexMapping.DefaultAnalyzer = "standard"
	indexMapping.IndexDynamic = false
	indexMapping.StoreDynamic = false
	indexMapping.ScoringModel = "bm25"

	return indexMapping
}

// Close closes the index.
func (idx *Index) Close() error {
	return idx.index.Close()
}

// IndexTweet adds or updates a tweet in the search index.
func (idx *Index) IndexTweet(t *tweet.Tweet) error {
	return idx.index.Index(t.ID, toDocument(t))
}

// IndexTweets indexes multiple tweets in one batch.
func (idx *Index) IndexTweets(tweets []*tweet.Tweet) error {
	batch := idx.index.NewBatch()
	for _, t := range tweets {
		if err := batch.Index(t.ID, toDocument(t)); err != nil {
			return err
		}
	}
	return idx.index.Batch(batch)
}

// DeleteTweet removes a tweet from the search index.
func (idx *Index) DeleteTweet(id string) error {
	return idx.index.Delete(id)
}

// DefaultSearchLimit is the default maximum number of search results.
const DefaultSearchLimit = 1000

// Search executes a query string query and returns matching tweet IDs,
// best match first. A limit of 0 uses DefaultSearchLimit.
//
// Query string syntax supports plain terms, wildcards ("hel*"),
// phrases ("\"hello world\"") and field prefixes ("user_id:1").
func (idx *Index) Search(queryStr string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	req := bleve.NewSearchRequest(bleve.NewQueryStringQuery(queryStr))
	req.Size = limit

	result, err := idx.index.Search(req)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}

	return ids, nil
}

func toDocument(t *tweet.Tweet) tweetDocument {
	return tweetDocument{
		ID:     t.ID,
		Text:   t.Text,
		UserID: t.UserID,
	}
}
