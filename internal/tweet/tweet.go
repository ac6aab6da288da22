// Package tweet defines the tweet and user records and their YAML seed format.
package tweet

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

var ErrInvalidSeed = errors.New("invalid seed")

// Tweet is a short text post. Only the author's ID is stored; the author
// record itself is looked up at read time.
type Tweet struct {
	ID     string `yaml:"id" json:"id"`
	Text   string `yaml:"text" json:"text"`
	UserID string `yaml:"user_id,omitempty" json:"userId,omitempty"`
}

// User is a tweet author.
type User struct {
	ID        string `yaml:"id" json:"id"`
	FirstName string `yaml:"first_name" json:"firstName"`
	LastName  string `yaml:"last_name" json:"lastName"`
}

// FullName joins first and last name with a single space.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Seed is the initial content of the store.
type Seed struct {
	Users  []*User  `yaml:"users"`
	Tweets []*Tweet `yaml:"tweets"`
}

// ParseSeed reads a YAML seed document and checks that IDs are present and unique.
// Tweets may reference unknown users; their author then resolves to nothing.
func ParseSeed(r io.Reader) (*Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return &Seed{}, nil
		}
		return nil, fmt.Errorf("decoding seed: %w", err)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Seed) validate() error {
	users := make(map[string]struct{}, len(s.Users))
	for i, u := range s.Users {
		if u == nil || u.ID == "" {
			return fmt.Errorf("%w: user #%d has no id", ErrInvalidSeed, i+1)
		}
		if _, dup := users[u.ID]; dup {
			return fmt.Errorf("%w: duplicate user id %q", ErrInvalidSeed, u.ID)
		}
		users[u.ID] = struct{}{}
	}

	tweets := make(map[string]struct{}, len(s.Tweets))
	for i, t := range s.Tweets {
		if t == nil || t.ID == "" {
			return fmt.Errorf("%w: tweet #%d has no id", ErrInvalidSeed, i+1)
		}
		if _, dup := tweets[t.ID]; dup {
			return fmt.Errorf("%w: duplicate tweet id %q", ErrInvalidSeed, t.ID)
		}
		tweets[t.ID] = struct{}{}
	}

	return nil
}

// LoadSeed reads a seed file from disk.
func LoadSeed(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := ParseSeed(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DefaultSeed returns a fresh copy of the built-in seed.
func DefaultSeed() *Seed {
	var s Seed
	if err := yaml.Unmarshal(defaultSeed, &s); err != nil {
		panic(fmt.Sprintf("built-in seed: %v", err))
	}
	return &s
}
