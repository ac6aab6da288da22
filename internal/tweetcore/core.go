// Package tweetcore provides a thread-safe in-memory store for tweets and users,
// with a full-text index over tweet text and optional seed file watching.
package tweetcore

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/woonki/tweetql/internal/search"
	"github.com/woonki/tweetql/internal/tweet"
)

var ErrUserNotFound = errors.New("user must exist")

// Core holds all tweets and users for the lifetime of the process.
type Core struct {
	logger *zap.Logger

	mu        sync.RWMutex
	tweets    map[string]*tweet.Tweet // ID -> Tweet
	order     []string                // tweet IDs in insertion order
	lastID    uint64                  // monotonic; IDs are never reused
	users     map[string]*tweet.User  // ID -> User
	userOrder []string
	index     *search.Index

	// Seed file watching (optional)
	watching bool
	done     chan struct{}
	onReload func()
}

// Option configures a Core.
type Option func(*Core)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Core) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Core populated from the given seed.
func New(seed *tweet.Seed, opts ...Option) (*Core, error) {
	idx, err := search.NewIndex()
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}

	c := &Core{
		logger: zap.NewNop(),
		tweets: make(map[string]*tweet.Tweet),
		users:  make(map[string]*tweet.User),
		index:  idx,
	}
	for _, opt := range opts {
		opt(c)
	}

	if seed == nil {
		seed = &tweet.Seed{}
	}
	c.setUsers(seed.Users)

	for _, t := range seed.Tweets {
		stored := *t
		c.tweets[stored.ID] = &stored
		c.order = append(c.order, stored.ID)
		if n, err := strconv.ParseUint(stored.ID, 10, 64); err == nil && n > c.lastID {
			c.lastID = n
		}
	}
	if err := idx.IndexTweets(c.allTweetsLocked()); err != nil {
		idx.Close()
		return nil, fmt.Errorf("indexing seed tweets: %w", err)
	}

	return c, nil
}

// setUsers replaces the user set (must be called with lock held or before the Core is shared).
func (c *Core) setUsers(users []*tweet.User) {
	c.users = make(map[string]*tweet.User, len(users))
	c.userOrder = make([]string, 0, len(users))
	for _, u := range users {
		stored := *u
		c.users[stored.ID] = &stored
		c.userOrder = append(c.userOrder, stored.ID)
	}
}

// Tweet returns the tweet with the given ID.
func (c *Core) Tweet(id string) (*tweet.Tweet, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tweets[id]
	return t, ok
}

// Tweets returns all tweets in insertion order.
func (c *Core) Tweets() []*tweet.Tweet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.allTweetsLocked()
}

func (c *Core) allTweetsLocked() []*tweet.Tweet {
	result := make([]*tweet.Tweet, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.tweets[id])
	}
	return result
}

// User returns the user with the given ID.
func (c *Core) User(id string) (*tweet.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	u, ok := c.users[id]
	return u, ok
}

// Users returns all users in seed order.
func (c *Core) Users() []*tweet.User {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*tweet.User, 0, len(c.userOrder))
	for _, id := range c.userOrder {
		result = append(result, c.users[id])
	}
	return result
}

// Author resolves the user who wrote t. It returns false when the tweet has
// no user ID or the ID does not match any user.
func (c *Core) Author(t *tweet.Tweet) (*tweet.User, bool) {
	if t == nil || t.UserID == "" {
		return nil, false
	}
	return c.User(t.UserID)
}

// Post creates a tweet by an existing user and returns it.
func (c *Core) Post(text, userID string) (*tweet.Tweet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.users[userID]; !ok {
		return nil, ErrUserNotFound
	}

	t := &tweet.Tweet{
		ID:     c.nextIDLocked(),
		Text:   text,
		UserID: userID,
	}
	c.tweets[t.ID] = t
	c.order = append(c.order, t.ID)

	if err := c.index.IndexTweet(t); err != nil {
		c.logger.Warn("indexing tweet failed", zap.String("id", t.ID), zap.Error(err))
	}
	c.logger.Debug("tweet posted", zap.String("id", t.ID), zap.String("user_id", userID))

	return t, nil
}

// nextIDLocked advances the counter past any ID already in use.
func (c *Core) nextIDLocked() string {
	for {
		c.lastID++
		id := strconv.FormatUint(c.lastID, 10)
		if _, taken := c.tweets[id]; !taken {
			return id
		}
	}
}

// Delete removes the tweet with the given ID. It reports false if no such tweet exists.
func (c *Core) Delete(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tweets[id]; !ok {
		return false
	}

	delete(c.tweets, id)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}

	if err := c.index.DeleteTweet(id); err != nil {
		c.logger.Warn("removing tweet from index failed", zap.String("id", id), zap.Error(err))
	}
	c.logger.Debug("tweet deleted", zap.String("id", id))

	return true
}

// Search returns the tweets whose text matches the query, best match first.
func (c *Core) Search(query string) ([]*tweet.Tweet, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids, err := c.index.Search(query, 0)
	if err != nil {
		return nil, fmt.Errorf("searching tweets: %w", err)
	}

	result := make([]*tweet.Tweet, 0, len(ids))
	for _, id := range ids {
		if t, ok := c.tweets[id]; ok {
			result = append(result, t)
		}
	}
	return result, nil
}

// ReplaceUsers swaps in a new user set. Existing tweets keep their user IDs;
// authors that disappear resolve to nothing.
func (c *Core) ReplaceUsers(users []*tweet.User) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setUsers(users)
}

// Close stops watching and releases the search index.
func (c *Core) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.unwatchLocked()
	return c.index.Close()
}
