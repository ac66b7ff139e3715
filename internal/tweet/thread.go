package tweet

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gotwitter/internal/common"
	"gotwitter/internal/config"
	"gotwitter/internal/dbmysql"
)

const DeletedParentMessage = "This Tweet was deleted by the Tweet author"

// ParentView is one level of the replied-to chain: either a tweet with its own
// parent nested inside, or a tombstone for a deleted parent.
type ParentView struct {
	Tweet     *Card       `json:"tweet,omitempty"`
	Deleted   bool        `json:"deleted,omitempty"`
	Message   string      `json:"message,omitempty"`
	RepliedTo *ParentView `json:"replied_to,omitempty"`
}

type ThreadView struct {
	Tweet     Card                  `json:"tweet"`
	RepliedTo *ParentView           `json:"replied_to,omitempty"`
	Replies   *common.Listing[Card] `json:"replies"`
}

type Threads struct {
	store     *dbmysql.Store
	presenter *Presenter
	maxDepth  int
}

func NewThreads(store *dbmysql.Store, presenter *Presenter, cfg *config.Config) *Threads {
	return &Threads{store: store, presenter: presenter, maxDepth: cfg.Thread.MaxDepth}
}

// Detail renders postID with its ancestors and one page of direct replies.
func (t *Threads) Detail(ctx context.Context, postID, viewer uint64, token string) (*ThreadView, error) {
	post, err := t.store.PostByID(ctx, postID)
	if err != nil {
		return nil, common.NotFoundIf(err, "tweet not found")
	}

	// a retweet's detail page is the source's detail page
	post, err = t.presenter.resolver.Resolve(ctx, post)
	if err != nil {
		return nil, err
	}
	card, canonical, err := t.presenter.Detail(ctx, post, viewer)
	if err != nil {
		return nil, err
	}

	chain, tombstone, err := t.ancestors(ctx, canonical)
	if err != nil {
		return nil, err
	}
	parents, err := t.presenter.Cards(ctx, chain, viewer)
	if err != nil {
		return nil, err
	}

	var head *ParentView
	if tombstone {
		head = &ParentView{Deleted: true, Message: DeletedParentMessage}
	}
	for i := len(parents) - 1; i >= 0; i-- {
		head = &ParentView{Tweet: &parents[i], RepliedTo: head}
	}

	rows, page, err := t.store.RepliesPage(ctx, canonical.ID, token)
	if err != nil {
		return nil, err
	}
	replies, err := t.presenter.Cards(ctx, rows, viewer)
	if err != nil {
		return nil, err
	}

	return &ThreadView{
		Tweet:     *card,
		RepliedTo: head,
		Replies:   common.NewListing(replies, page),
	}, nil
}

// ancestors walks reply links upward, nearest parent first. tombstone is set
// when the walk ends at a deleted parent. The walk stops at a cycle or after
// maxDepth parents (0 means no limit).
func (t *Threads) ancestors(ctx context.Context, post *dbmysql.Post) (chain []dbmysql.Post, tombstone bool, err error) {
	visited := map[uint64]bool{post.ID: true}
	current := post

	for current.Kind == common.KindReply {
		if t.maxDepth > 0 && len(chain) >= t.maxDepth {
			break
		}

		link, err := t.store.ParentLink(ctx, current.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
		if err != nil {
			return nil, false, err
		}
		if link.ParentPostID == nil {
			return chain, true, nil
		}
		if visited[*link.ParentPostID] {
			break
		}

		parent, err := t.store.PostByID(ctx, *link.ParentPostID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return chain, true, nil
		}
		if err != nil {
			return nil, false, err
		}

		visited[parent.ID] = true
		chain = append(chain, *parent)
		current = parent
	}
	return chain, false, nil
}
