package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"tweeteroo/model"
	"tweeteroo/repository"
)

const feedLookupConcurrency = 8

type TweetService struct {
	tweets repository.TweetRepository
	users  repository.UserRepository
}

func NewTweetService(tweets repository.TweetRepository, users repository.UserRepository) *TweetService {
	return &TweetService{tweets: tweets, users: users}
}

// Create checks that username is registered, then stores the tweet. The
// lookup and the insert are not atomic.
func (s *TweetService) Create(ctx context.Context, username, text string) (model.Tweet, error) {
	if _, err := s.users.GetByUsername(ctx, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Tweet{}, fmt.Errorf("user %q: %w", username, ErrUnauthorized)
		}
		return model.Tweet{}, err
	}
	return s.tweets.Create(ctx, model.Tweet{Username: username, Tweet: text})
}

// Feed returns every tweet with its author's avatar, newest first. Any failed
// author lookup fails the whole feed.
func (s *TweetService) Feed(ctx context.Context) ([]model.FeedItem, error) {
	tweets, err := s.tweets.List(ctx)
	if err != nil {
		return nil, err
	}

	avatars, err := s.avatars(ctx, tweets)
	if err != nil {
		return nil, err
	}

	items := make([]model.FeedItem, 0, len(tweets))
	for _, t := range tweets {
		items = append(items, model.FeedItem{
			ID:       t.ID,
			Username: t.Username,
			Avatar:   avatars[t.Username],
			Tweet:    t.Tweet,
		})
	}
	sortNewestFirst(items)
	return items, nil
}

// avatars resolves each distinct author once.
func (s *TweetService) avatars(ctx context.Context, tweets []model.Tweet) (map[string]string, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]string)
	)
	seen := make(map[string]struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(feedLookupConcurrency)
	for _, t := range tweets {
		username := t.Username
		if _, ok := seen[username]; ok {
			continue
		}
		seen[username] = struct{}{}

		g.Go(func() error {
			u, err := s.users.GetByUsername(gctx, username)
			if err != nil {
				return fmt.Errorf("author %q: %w", username, err)
			}
			mu.Lock()
			out[username] = u.Avatar
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// sortNewestFirst orders by the ObjectID, whose leading bytes are the
// big-endian creation second.
func sortNewestFirst(items []model.FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return bytes.Compare(items[i].ID[:], items[j].ID[:]) > 0
	})
}

// ParseTweetID maps an unparseable id to ErrNotFound: no tweet can have it.
func ParseTweetID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("tweet %q: %w", raw, ErrNotFound)
	}
	return id, nil
}

func (s *TweetService) Exists(ctx context.Context, rawID string) (bool, error) {
	id, err := ParseTweetID(rawID)
	if err != nil {
		return false, nil
	}
	return s.tweets.Exists(ctx, id)
}

// Update replaces the tweet text only.
func (s *TweetService) Update(ctx context.Context, rawID, text string) error {
	id, err := ParseTweetID(rawID)
	if err != nil {
		return err
	}
	return notFound(s.tweets.UpdateText(ctx, id, text), id)
}

func (s *TweetService) Delete(ctx context.Context, rawID string) error {
	id, err := ParseTweetID(rawID)
	if err != nil {
		return err
	}
	return notFound(s.tweets.Delete(ctx, id), id)
}

func notFound(err error, id primitive.ObjectID) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("tweet %s: %w", id.Hex(), ErrNotFound)
	}
	return err
}
