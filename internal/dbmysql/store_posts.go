package dbmysql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gotwitter/internal/common"
)

func (s *Store) CreatePost(ctx context.Context, post *Post) error {
	if err := s.conn(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (s *Store) PostByID(ctx context.Context, id uint64) (*Post, error) {
	var post Post
	if err := s.conn(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Store) PostsByIDs(ctx context.Context, ids []uint64) (map[uint64]*Post, error) {
	out := make(map[uint64]*Post, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var posts []*Post
	if err := s.conn(ctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	for _, p := range posts {
		out[p.ID] = p
	}
	return out, nil
}

// paged counts the rows matched by scope and loads the requested window, newest first.
func (s *Store) paged(ctx context.Context, scope func(*gorm.DB) *gorm.DB, order []string, token string) ([]Post, common.Page, error) {
	var total int64
	if err := scope(s.conn(ctx).Model(&Post{})).Count(&total).Error; err != nil {
		return nil, common.Page{}, fmt.Errorf("failed to count posts: %w", err)
	}
	page, offset, limit := common.Window(int(total), common.PageSize, token)

	q := scope(s.conn(ctx).Model(&Post{})).Select("posts.*")
	for _, o := range order {
		q = q.Order(o)
	}
	var posts []Post
	if err := q.Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, common.Page{}, fmt.Errorf("failed to load posts: %w", err)
	}
	return posts, page, nil
}

var newestFirst = []string{"posts.created_at DESC", "posts.id DESC"}

const hasRetweetLink = "EXISTS (SELECT 1 FROM retweet_links rl WHERE rl.retweet_post_id = posts.id)"

// HomePage lists authored non-retweet rows of actorIDs plus the retweet wrappers they performed.
func (s *Store) HomePage(ctx context.Context, actorIDs []uint64, token string) ([]Post, common.Page, error) {
	return s.paged(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(posts.kind <> ? AND posts.author_id IN ?) OR (posts.kind = ? AND posts.retweeting_actor_id IN ? AND "+hasRetweetLink+")",
			common.KindRetweet, actorIDs, common.KindRetweet, actorIDs,
		)
	}, newestFirst, token)
}

func (s *Store) ProfilePage(ctx context.Context, actorID uint64, mode common.ProfileMode, token string) ([]Post, common.Page, error) {
	switch mode {
	case common.ProfilePostsOnly, common.ProfilePostsAndReplies:
		kinds := []common.PostKind{common.KindOriginal, common.KindQuote}
		if mode == common.ProfilePostsAndReplies {
			kinds = append(kinds, common.KindReply)
		}
		return s.paged(ctx, func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"(posts.author_id = ? AND posts.kind IN ?) OR (posts.kind = ? AND posts.retweeting_actor_id = ? AND "+hasRetweetLink+")",
				actorID, kinds, common.KindRetweet, actorID,
			)
		}, newestFirst, token)

	case common.ProfileMediaOnly:
		return s.paged(ctx, func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"posts.author_id = ? AND posts.kind IN ? AND EXISTS (SELECT 1 FROM media_attachments ma WHERE ma.post_id = posts.id)",
				actorID, []common.PostKind{common.KindOriginal, common.KindQuote},
			)
		}, newestFirst, token)

	case common.ProfileLikes:
		return s.paged(ctx, func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN like_marks ON like_marks.post_id = posts.id").
				Where("like_marks.actor_id = ?", actorID)
		}, []string{"like_marks.created_at DESC", "like_marks.id DESC"}, token)
	}
	return nil, common.Page{}, fmt.Errorf("unknown profile mode %q", mode)
}

// SearchPosts is a LIKE prefilter: it returns a superset of the posts whose body,
// author handle or author username contains any keyword. Exact scoring is the caller's.
func (s *Store) SearchPosts(ctx context.Context, kinds []common.PostKind, since *time.Time, keywords []string) ([]Post, error) {
	var posts []Post
	if len(keywords) == 0 {
		return posts, nil
	}

	clauses := make([]string, 0, len(keywords))
	args := make([]interface{}, 0, len(keywords)*3)
	for _, kw := range keywords {
		pattern := containsPattern(kw)
		clauses = append(clauses, "LOWER(posts.body) LIKE ? ESCAPE '!' OR LOWER(users.username) LIKE ? ESCAPE '!' OR LOWER(users.handle) LIKE ? ESCAPE '!'")
		args = append(args, pattern, pattern, pattern)
	}

	q := s.conn(ctx).Model(&Post{}).
		Select("posts.*").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.kind IN ?", kinds).
		Where("("+strings.Join(clauses, " OR ")+")", args...)
	if since != nil {
		q = q.Where("posts.written_at >= ?", *since)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	return posts, nil
}

func (s *Store) CreateReplyLink(ctx context.Context, link *ReplyLink) error {
	return s.conn(ctx).Create(link).Error
}

// ParentLink returns gorm.ErrRecordNotFound when childID is not a reply.
func (s *Store) ParentLink(ctx context.Context, childID uint64) (*ReplyLink, error) {
	var link ReplyLink
	if err := s.conn(ctx).Where("child_post_id = ?", childID).First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (s *Store) RepliesPage(ctx context.Context, parentID uint64, token string) ([]Post, common.Page, error) {
	return s.paged(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN reply_links ON reply_links.child_post_id = posts.id").
			Where("reply_links.parent_post_id = ?", parentID)
	}, newestFirst, token)
}

func (s *Store) CreateRetweetLink(ctx context.Context, link *RetweetLink) error {
	return s.conn(ctx).Create(link).Error
}

func (s *Store) RetweetLinkFor(ctx context.Context, actorID, sourceID uint64) (*RetweetLink, error) {
	var link RetweetLink
	err := s.conn(ctx).Where("actor_id = ? AND source_post_id = ?", actorID, sourceID).First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// RetweetLinksByWrappers maps wrapper row id to its link. Orphan wrappers are absent.
func (s *Store) RetweetLinksByWrappers(ctx context.Context, wrapperIDs []uint64) (map[uint64]RetweetLink, error) {
	out := make(map[uint64]RetweetLink, len(wrapperIDs))
	if len(wrapperIDs) == 0 {
		return out, nil
	}
	var links []RetweetLink
	if err := s.conn(ctx).Where("retweet_post_id IN ?", wrapperIDs).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to get retweet links: %w", err)
	}
	for _, l := range links {
		out[l.RetweetPostID] = l
	}
	return out, nil
}

func (s *Store) CreateQuoteLink(ctx context.Context, link *QuoteLink) error {
	return s.conn(ctx).Create(link).Error
}

// QuoteSources maps quoting post id to the quoted post id, nil once the source is gone.
func (s *Store) QuoteSources(ctx context.Context, quotingIDs []uint64) (map[uint64]*uint64, error) {
	out := make(map[uint64]*uint64, len(quotingIDs))
	if len(quotingIDs) == 0 {
		return out, nil
	}
	var links []QuoteLink
	if err := s.conn(ctx).Where("quoting_post_id IN ?", quotingIDs).Find(&links).Error; err != nil {
		return nil, fmt.Errorf("failed to get quote links: %w", err)
	}
	for _, l := range links {
		out[l.QuotingPostID] = l.SourcePostID
	}
	return out, nil
}

func (s *Store) CountRepliesFor(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	return s.countGrouped(ctx, &ReplyLink{}, "parent_post_id", ids)
}

func (s *Store) CountRetweetLinksFor(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	return s.countGrouped(ctx, &RetweetLink{}, "source_post_id", ids)
}

func (s *Store) CountQuotesFor(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	return s.countGrouped(ctx, &QuoteLink{}, "source_post_id", ids)
}

func (s *Store) CountLikesFor(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	return s.countGrouped(ctx, &LikeMark{}, "post_id", ids)
}

func (s *Store) pluckAmong(ctx context.Context, model interface{}, column, actorColumn string, actorID uint64, ids []uint64) (map[uint64]bool, error) {
	out := map[uint64]bool{}
	if actorID == 0 || len(ids) == 0 {
		return out, nil
	}
	var hits []uint64
	err := s.conn(ctx).Model(model).
		Where(actorColumn+" = ? AND "+column+" IN ?", actorID, ids).
		Pluck(column, &hits).Error
	if err != nil {
		return nil, err
	}
	for _, id := range hits {
		out[id] = true
	}
	return out, nil
}

func (s *Store) LikedAmong(ctx context.Context, actorID uint64, ids []uint64) (map[uint64]bool, error) {
	return s.pluckAmong(ctx, &LikeMark{}, "post_id", "actor_id", actorID, ids)
}

func (s *Store) RetweetedAmong(ctx context.Context, actorID uint64, ids []uint64) (map[uint64]bool, error) {
	return s.pluckAmong(ctx, &RetweetLink{}, "source_post_id", "actor_id", actorID, ids)
}

func (s *Store) CreateLike(ctx context.Context, like *LikeMark) error {
	return s.conn(ctx).Create(like).Error
}

// DeleteLike reports whether the like existed.
func (s *Store) DeleteLike(ctx context.Context, actorID, postID uint64) (bool, error) {
	res := s.conn(ctx).Where("actor_id = ? AND post_id = ?", actorID, postID).Delete(&LikeMark{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete like: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CreateMention is insert-or-ignore so a repeated mention never aborts the caller's transaction.
func (s *Store) CreateMention(ctx context.Context, mention *MentionMark) error {
	return s.conn(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(mention).Error
}

func (s *Store) MentionedActorIDs(ctx context.Context, postID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.conn(ctx).Model(&MentionMark{}).
		Where("post_id = ?", postID).
		Order("id").
		Pluck("mentioned_actor_id", &ids).Error
	return ids, err
}

func (s *Store) CreateMedia(ctx context.Context, media []MediaAttachment) error {
	if len(media) == 0 {
		return nil
	}
	return s.conn(ctx).Create(&media).Error
}

func (s *Store) MediaFor(ctx context.Context, postIDs []uint64) (map[uint64][]MediaAttachment, error) {
	out := make(map[uint64][]MediaAttachment, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var media []MediaAttachment
	if err := s.conn(ctx).Where("post_id IN ?", postIDs).Order("id").Find(&media).Error; err != nil {
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	for _, m := range media {
		out[m.PostID] = append(out[m.PostID], m)
	}
	return out, nil
}

// DeletePostCascade removes post and everything that hangs off it, returning the
// blob refs of its media for best-effort removal after commit. Call it inside Transaction.
func (s *Store) DeletePostCascade(ctx context.Context, post *Post) ([]string, error) {
	db := s.conn(ctx)

	if post.Kind == common.KindRetweet {
		if err := db.Where("retweet_post_id = ?", post.ID).Delete(&RetweetLink{}).Error; err != nil {
			return nil, fmt.Errorf("failed to delete retweet link: %w", err)
		}
		if err := db.Delete(&Post{}, post.ID).Error; err != nil {
			return nil, fmt.Errorf("failed to delete retweet: %w", err)
		}
		return nil, nil
	}

	var wrapperIDs []uint64
	if err := db.Model(&RetweetLink{}).Where("source_post_id = ?", post.ID).Pluck("retweet_post_id", &wrapperIDs).Error; err != nil {
		return nil, err
	}
	if err := db.Where("source_post_id = ?", post.ID).Delete(&RetweetLink{}).Error; err != nil {
		return nil, fmt.Errorf("failed to delete retweet links: %w", err)
	}
	if len(wrapperIDs) > 0 {
		if err := db.Where("id IN ?", wrapperIDs).Delete(&Post{}).Error; err != nil {
			return nil, fmt.Errorf("failed to delete retweets: %w", err)
		}
	}

	if err := db.Model(&ReplyLink{}).Where("parent_post_id = ?", post.ID).Update("parent_post_id", nil).Error; err != nil {
		return nil, fmt.Errorf("failed to orphan replies: %w", err)
	}
	if err := db.Where("child_post_id = ?", post.ID).Delete(&ReplyLink{}).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&QuoteLink{}).Where("source_post_id = ?", post.ID).Update("source_post_id", nil).Error; err != nil {
		return nil, fmt.Errorf("failed to orphan quotes: %w", err)
	}
	if err := db.Where("quoting_post_id = ?", post.ID).Delete(&QuoteLink{}).Error; err != nil {
		return nil, err
	}

	var refs []string
	if err := db.Model(&MediaAttachment{}).Where("post_id = ?", post.ID).Pluck("blob_ref", &refs).Error; err != nil {
		return nil, err
	}

	for _, model := range []interface{}{&LikeMark{}, &MentionMark{}, &MediaAttachment{}, &Notification{}} {
		if err := db.Where("post_id = ?", post.ID).Delete(model).Error; err != nil {
			return nil, fmt.Errorf("failed to delete dependents: %w", err)
		}
	}

	if err := db.Delete(&Post{}, post.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}
	return refs, nil
}
