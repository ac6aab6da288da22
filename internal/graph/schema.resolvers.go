package graph

import (
	"context"
	"errors"

	"github.com/graph-gophers/graphql-go"

	"github.com/woonki/tweetql/internal/movies"
	"github.com/woonki/tweetql/internal/tweet"
	"github.com/woonki/tweetql/internal/tweetcore"
)

// AllTweets is the resolver for the allTweets field.
func (r *Resolver) AllTweets() *[]*tweetResolver {
	tweets := r.Core.Tweets()
	result := make([]*tweetResolver, len(tweets))
	for i, t := range tweets {
		result[i] = &tweetResolver{core: r.Core, t: t}
	}
	return &result
}

// Tweet is the resolver for the tweet field. A miss is not an error.
func (r *Resolver) Tweet(args struct{ ID *graphql.ID }) *tweetResolver {
	if args.ID == nil {
		return nil
	}
	t, ok := r.Core.Tweet(string(*args.ID))
	if !ok {
		return nil
	}
	return &tweetResolver{core: r.Core, t: t}
}

// AllUsers is the resolver for the allUsers field.
func (r *Resolver) AllUsers() []*userResolver {
	users := r.Core.Users()
	result := make([]*userResolver, len(users))
	for i, u := range users {
		result[i] = &userResolver{u: u}
	}
	return result
}

// AllMovies is the resolver for the allMovies field.
func (r *Resolver) AllMovies(ctx context.Context) ([]*movies.Movie, error) {
	list, err := r.Movies.List(ctx)
	if err != nil {
		return nil, upstreamError(err)
	}
	return list, nil
}

// Movie is the resolver for the movie field.
func (r *Resolver) Movie(ctx context.Context, args struct{ ID string }) (*movies.Movie, error) {
	m, err := r.Movies.Get(ctx, args.ID)
	if err != nil {
		return nil, upstreamError(err)
	}
	return m, nil
}

// SearchTweets is the resolver for the searchTweets field.
func (r *Resolver) SearchTweets(args struct{ Query string }) ([]*tweetResolver, error) {
	tweets, err := r.Core.Search(args.Query)
	if err != nil {
		return nil, err
	}
	result := make([]*tweetResolver, len(tweets))
	for i, t := range tweets {
		result[i] = &tweetResolver{core: r.Core, t: t}
	}
	return result, nil
}

// PostTweet is the resolver for the postTweet field.
func (r *Resolver) PostTweet(args struct {
	Text   *string
	UserID *graphql.ID
}) (*tweetResolver, error) {
	if args.UserID == nil {
		return nil, tweetcore.ErrUserNotFound
	}

	var text string
	if args.Text != nil {
		text = *args.Text
	}

	t, err := r.Core.Post(text, string(*args.UserID))
	if err != nil {
		return nil, err
	}
	return &tweetResolver{core: r.Core, t: t}, nil
}

// DeleteTweet is the resolver for the deleteTweet field.
func (r *Resolver) DeleteTweet(args struct{ ID *graphql.ID }) bool {
	if args.ID == nil {
		return false
	}
	return r.Core.Delete(string(*args.ID))
}

// upstreamError unwraps to the *movies.Error so its extensions reach the response.
func upstreamError(err error) error {
	var merr *movies.Error
	if errors.As(err, &merr) {
		return merr
	}
	return err
}

type tweetResolver struct {
	core *tweetcore.Core
	t    *tweet.Tweet
}

func (r *tweetResolver) ID() graphql.ID {
	return graphql.ID(r.t.ID)
}

func (r *tweetResolver) Text() string {
	return r.t.Text
}

// Author is the resolver for Tweet.author.
func (r *tweetResolver) Author() *userResolver {
	u, ok := r.core.Author(r.t)
	if !ok {
		return nil
	}
	return &userResolver{u: u}
}

type userResolver struct {
	u *tweet.User
}

func (r *userResolver) ID() graphql.ID {
	return graphql.ID(r.u.ID)
}

func (r *userResolver) FirstName() string {
	return r.u.FirstName
}

func (r *userResolver) LastName() string {
	return r.u.LastName
}

func (r *userResolver) FullName() string {
	return r.u.FullName()
}
