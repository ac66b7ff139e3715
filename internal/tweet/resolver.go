package tweet

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"gotwitter/internal/common"
	"gotwitter/internal/dbmysql"
)

// Resolver maps timeline rows to the content they show and computes everything
// derived from that content.
type Resolver struct {
	store *dbmysql.Store
}

func NewResolver(store *dbmysql.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the canonical post for post. Only RETWEET rows change.
func (r *Resolver) Resolve(ctx context.Context, post *dbmysql.Post) (*dbmysql.Post, error) {
	if post.Kind != common.KindRetweet {
		return post, nil
	}
	out, err := r.ResolveAll(ctx, []*dbmysql.Post{post})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// ResolveAll resolves a page of rows with one link query and one post query.
// A wrapper without a link fails with NotFound.
func (r *Resolver) ResolveAll(ctx context.Context, posts []*dbmysql.Post) ([]*dbmysql.Post, error) {
	wrapperIDs := lo.FilterMap(posts, func(p *dbmysql.Post, _ int) (uint64, bool) {
		return p.ID, p.Kind == common.KindRetweet
	})
	out := make([]*dbmysql.Post, len(posts))
	if len(wrapperIDs) == 0 {
		copy(out, posts)
		return out, nil
	}

	links, err := r.store.RetweetLinksByWrappers(ctx, wrapperIDs)
	if err != nil {
		return nil, err
	}
	sourceIDs := lo.Uniq(lo.MapToSlice(links, func(_ uint64, l dbmysql.RetweetLink) uint64 {
		return l.SourcePostID
	}))
	sources, err := r.store.PostsByIDs(ctx, sourceIDs)
	if err != nil {
		return nil, err
	}

	for i, p := range posts {
		if p.Kind != common.KindRetweet {
			out[i] = p
			continue
		}
		link, ok := links[p.ID]
		if !ok {
			return nil, common.NotFound(fmt.Sprintf("retweet %d no longer points at a tweet", p.ID))
		}
		source, ok := sources[link.SourcePostID]
		if !ok || source.Kind == common.KindRetweet {
			return nil, common.NotFound(fmt.Sprintf("retweet %d no longer points at a tweet", p.ID))
		}
		out[i] = source
	}
	return out, nil
}

// Counts are derived from the canonical post. List views fold quotes into
// Retweets; detail views report them apart in Quotes.
type Counts struct {
	Replies  int64  `json:"replies"`
	Retweets int64  `json:"retweets"`
	Likes    int64  `json:"likes"`
	Quotes   *int64 `json:"quotes,omitempty"`
}

func (r *Resolver) Counts(ctx context.Context, ids []uint64, detail bool) (map[uint64]Counts, error) {
	replies, err := r.store.CountRepliesFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count replies: %w", err)
	}
	retweets, err := r.store.CountRetweetLinksFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count retweets: %w", err)
	}
	quotes, err := r.store.CountQuotesFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count quotes: %w", err)
	}
	likes, err := r.store.CountLikesFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}

	out := make(map[uint64]Counts, len(ids))
	for _, id := range ids {
		c := Counts{Replies: replies[id], Likes: likes[id]}
		if detail {
			q := quotes[id]
			c.Retweets = retweets[id]
			c.Quotes = &q
		} else {
			c.Retweets = retweets[id] + quotes[id]
		}
		out[id] = c
	}
	return out, nil
}

type Flags struct {
	Liked     bool `json:"liked"`
	Retweeted bool `json:"retweeted"`
}

// ViewerFlags reports what viewer did to each canonical id. Anonymous viewers
// get all false without touching the store.
func (r *Resolver) ViewerFlags(ctx context.Context, viewer uint64, ids []uint64) (map[uint64]Flags, error) {
	out := make(map[uint64]Flags, len(ids))
	if viewer == 0 {
		return out, nil
	}

	liked, err := r.store.LikedAmong(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}
	retweeted, err := r.store.RetweetedAmong(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = Flags{Liked: liked[id], Retweeted: retweeted[id]}
	}
	return out, nil
}
