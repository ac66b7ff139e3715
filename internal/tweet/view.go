package tweet

import (
	"context"
	"time"

	"github.com/samber/lo"

	"gotwitter/internal/common"
	"gotwitter/internal/config"
	"gotwitter/internal/dbmysql"
)

type MediaView struct {
	Ref  string               `json:"ref"`
	Type common.MediaFileType `json:"type"`
	URL  string               `json:"url"`
}

// Card is one rendered timeline entry. ID is the row that was listed, which
// differs from CanonicalID only for retweets.
type Card struct {
	ID           uint64              `json:"id"`
	CanonicalID  uint64              `json:"canonical_id"`
	Kind         common.PostKind     `json:"kind"`
	Author       common.UserSummary  `json:"author"`
	Content      string              `json:"content"`
	Media        []MediaView         `json:"media"`
	WrittenAt    time.Time           `json:"written_at"`
	RetweetedBy  *common.UserSummary `json:"retweeted_by,omitempty"`
	ReplyingTo   *common.UserSummary `json:"replying_to,omitempty"`
	QuotedID     *uint64             `json:"quoted_id,omitempty"`
	QuoteDeleted bool                `json:"quote_deleted,omitempty"`
	Counts
	Flags
}

// Presenter renders rows into cards. Every read path goes through it once.
type Presenter struct {
	store        *dbmysql.Store
	resolver     *Resolver
	mediaBaseURL string
}

func NewPresenter(store *dbmysql.Store, resolver *Resolver, cfg *config.Config) *Presenter {
	return &Presenter{
		store:        store,
		resolver:     resolver,
		mediaBaseURL: cfg.Media.MediaBaseURL,
	}
}

// Cards renders a listed page with list-view counts.
func (p *Presenter) Cards(ctx context.Context, rows []dbmysql.Post, viewer uint64) ([]Card, error) {
	ptrs := make([]*dbmysql.Post, len(rows))
	for i := range rows {
		ptrs[i] = &rows[i]
	}
	cards, _, err := p.render(ctx, ptrs, viewer, false)
	return cards, err
}

// Detail renders a single post with detail-view counts and also returns its canonical row.
func (p *Presenter) Detail(ctx context.Context, post *dbmysql.Post, viewer uint64) (*Card, *dbmysql.Post, error) {
	cards, canonical, err := p.render(ctx, []*dbmysql.Post{post}, viewer, true)
	if err != nil {
		return nil, nil, err
	}
	return &cards[0], canonical[0], nil
}

func (p *Presenter) MediaURL(ref string) string {
	return p.mediaBaseURL + ref
}

func (p *Presenter) render(ctx context.Context, rows []*dbmysql.Post, viewer uint64, detail bool) ([]Card, []*dbmysql.Post, error) {
	cards := make([]Card, 0, len(rows))
	if len(rows) == 0 {
		return cards, nil, nil
	}

	canonical, err := p.resolver.ResolveAll(ctx, rows)
	if err != nil {
		return nil, nil, err
	}
	ids := lo.Uniq(lo.Map(canonical, func(c *dbmysql.Post, _ int) uint64 { return c.ID }))

	counts, err := p.resolver.Counts(ctx, ids, detail)
	if err != nil {
		return nil, nil, err
	}
	flags, err := p.resolver.ViewerFlags(ctx, viewer, ids)
	if err != nil {
		return nil, nil, err
	}

	var userIDs []uint64
	for i, row := range rows {
		userIDs = append(userIDs, canonical[i].AuthorID)
		if row.RetweetingActorID != nil {
			userIDs = append(userIDs, *row.RetweetingActorID)
		}
		if canonical[i].ReplyTargetActorID != nil {
			userIDs = append(userIDs, *canonical[i].ReplyTargetActorID)
		}
	}
	users, err := p.store.UsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, nil, err
	}
	summary := func(id uint64) *common.UserSummary {
		u, ok := users[id]
		if !ok {
			return nil
		}
		s := u.Summary()
		return &s
	}

	media, err := p.store.MediaFor(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	quotes, err := p.store.QuoteSources(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	for i, row := range rows {
		c := canonical[i]
		card := Card{
			ID:          row.ID,
			CanonicalID: c.ID,
			Kind:        c.Kind,
			Content:     c.Body,
			WrittenAt:   c.WrittenAt,
			Counts:      counts[c.ID],
			Flags:       flags[c.ID],
			Media: lo.Map(media[c.ID], func(m dbmysql.MediaAttachment, _ int) MediaView {
				return MediaView{Ref: m.BlobRef, Type: m.FileType, URL: p.MediaURL(m.BlobRef)}
			}),
		}
		if author := summary(c.AuthorID); author != nil {
			card.Author = *author
		}
		if row.Kind == common.KindRetweet && row.RetweetingActorID != nil {
			card.RetweetedBy = summary(*row.RetweetingActorID)
		}
		if c.ReplyTargetActorID != nil {
			card.ReplyingTo = summary(*c.ReplyTargetActorID)
		}
		if source, ok := quotes[c.ID]; ok {
			card.QuotedID = source
			card.QuoteDeleted = source == nil
		}
		cards = append(cards, card)
	}
	return cards, canonical, nil
}
