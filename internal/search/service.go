// Package search ranks tweets and accounts against a free-text query.
package search

//go:generate mockgen -source=service.go -destination=mock_service.go -package=search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"gotwitter/internal/common"
	"gotwitter/internal/dbmysql"
	"gotwitter/internal/tweet"
	"gotwitter/internal/user"
)

// TopWindow bounds how old a tweet may be to appear in top results.
const TopWindow = 7 * 24 * time.Hour

type Service interface {
	Top(ctx context.Context, query string, viewer uint64, token string) (*common.Listing[tweet.Card], error)
	Latest(ctx context.Context, query string, viewer uint64, token string) (*common.Listing[tweet.Card], error)
	People(ctx context.Context, query string, viewer uint64, token string) (*common.Listing[user.Card], error)
}

type SearchService struct {
	store     *dbmysql.Store
	presenter *tweet.Presenter
	now       common.Clock
}

func NewSearchService(store *dbmysql.Store, presenter *tweet.Presenter) *SearchService {
	return &SearchService{store: store, presenter: presenter, now: time.Now}
}

func (s *SearchService) SetClock(now common.Clock) {
	s.now = now
}

// Keywords splits a query on whitespace and lowercases each word.
// Duplicates are kept; each one scores separately. A blank query gives no
// keywords and so no results.
func Keywords(query string) []string {
	return lo.Map(strings.Fields(query), func(w string, _ int) string { return strings.ToLower(w) })
}

// Score counts the keywords found in at least one of fields.
func Score(keywords []string, fields ...string) int {
	lowered := lo.Map(fields, func(f string, _ int) string { return strings.ToLower(f) })
	return lo.CountBy(keywords, func(kw string) bool {
		return lo.SomeBy(lowered, func(f string) bool { return strings.Contains(f, kw) })
	})
}

type scoredPost struct {
	post  dbmysql.Post
	score int
}

// matchPosts scores the SQL prefilter result exactly and drops non-matches.
func (s *SearchService) matchPosts(ctx context.Context, keywords []string, kinds []common.PostKind, since *time.Time) ([]scoredPost, error) {
	candidates, err := s.store.SearchPosts(ctx, kinds, since, keywords)
	if err != nil {
		return nil, err
	}
	authors, err := s.store.UsersByIDs(ctx, lo.Uniq(lo.Map(candidates, func(p dbmysql.Post, _ int) uint64 { return p.AuthorID })))
	if err != nil {
		return nil, err
	}

	out := make([]scoredPost, 0, len(candidates))
	for _, p := range candidates {
		var username, handle string
		if a, ok := authors[p.AuthorID]; ok {
			username, handle = a.Username, a.Handle
		}
		if score := Score(keywords, username, handle, p.Body); score > 0 {
			out = append(out, scoredPost{post: p, score: score})
		}
	}
	return out, nil
}

func (s *SearchService) page(ctx context.Context, ranked []scoredPost, viewer uint64, token string) (*common.Listing[tweet.Card], error) {
	window, page := common.Paginate(ranked, common.PageSize, token)
	rows := lo.Map(window, func(sp scoredPost, _ int) dbmysql.Post { return sp.post })
	cards, err := s.presenter.Cards(ctx, rows, viewer)
	if err != nil {
		return nil, err
	}
	return common.NewListing(cards, page), nil
}

// Top ranks recent original tweets by relevance, then engagement.
func (s *SearchService) Top(ctx context.Context, query string, viewer uint64, token string) (*common.Listing[tweet.Card], error) {
	keywords := Keywords(query)
	since := s.now().Add(-TopWindow)
	matched, err := s.matchPosts(ctx, keywords, []common.PostKind{common.KindOriginal}, &since)
	if err != nil {
		return nil, err
	}

	ids := lo.Map(matched, func(sp scoredPost, _ int) uint64 { return sp.post.ID })
	retweets, err := s.store.CountRetweetLinksFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	likes, err := s.store.CountLikesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	replies, err := s.store.CountRepliesFor(ctx, ids)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.score != b.score {
			return a.score > b.score
		}
		for _, counts := range []map[uint64]int64{retweets, likes, replies} {
			if counts[a.post.ID] != counts[b.post.ID] {
				return counts[a.post.ID] > counts[b.post.ID]
			}
		}
		return a.post.ID > b.post.ID
	})

	log.WithFields(log.Fields{"keywords": len(keywords), "matched": len(matched)}).Debug("top search ranked")
	return s.page(ctx, matched, viewer, token)
}

// Latest ranks original tweets and replies by relevance, then recency.
func (s *SearchService) Latest(ctx context.Context, query string, viewer uint64, token string) (*common.Listing[tweet.Card], error) {
	keywords := Keywords(query)
	matched, err := s.matchPosts(ctx, keywords, []common.PostKind{common.KindOriginal, common.KindReply}, nil)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if !a.post.WrittenAt.Equal(b.post.WrittenAt) {
			return a.post.WrittenAt.After(b.post.WrittenAt)
		}
		return a.post.ID > b.post.ID
	})
	return s.page(ctx, matched, viewer, token)
}

// People ranks accounts by relevance, then follower count.
func (s *SearchService) People(ctx context.Context, query string, viewer uint64, token string) (*common.Listing[user.Card], error) {
	keywords := Keywords(query)
	candidates, err := s.store.SearchUsers(ctx, keywords)
	if err != nil {
		return nil, err
	}

	scores := make(map[uint64]int, len(candidates))
	matched := lo.Filter(candidates, func(u dbmysql.User, _ int) bool {
		scores[u.ID] = Score(keywords, u.Handle, u.Username, u.Bio)
		return scores[u.ID] > 0
	})
	followers, err := s.store.CountFollowers(ctx, lo.Map(matched, func(u dbmysql.User, _ int) uint64 { return u.ID }))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if scores[a.ID] != scores[b.ID] {
			return scores[a.ID] > scores[b.ID]
		}
		if followers[a.ID] != followers[b.ID] {
			return followers[a.ID] > followers[b.ID]
		}
		return a.ID < b.ID
	})

	window, page := common.Paginate(matched, common.PageSize, token)
	cards, err := user.Cards(ctx, s.store, window, viewer)
	if err != nil {
		return nil, err
	}
	return common.NewListing(cards, page), nil
}
