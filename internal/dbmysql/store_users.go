package dbmysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"gotwitter/internal/common"
)

func (s *Store) CreateUser(ctx context.Context, user *User) error {
	if err := s.conn(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) UserByID(ctx context.Context, id uint64) (*User, error) {
	var user User
	if err := s.conn(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) UserByHandle(ctx context.Context, handle string) (*User, error) {
	var user User
	if err := s.conn(ctx).Where("handle = ?", handle).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UsersByHandles resolves mention handles; unknown handles are simply absent.
func (s *Store) UsersByHandles(ctx context.Context, handles []string) ([]User, error) {
	var users []User
	if len(handles) == 0 {
		return users, nil
	}
	if err := s.conn(ctx).Where("handle IN ?", handles).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get users by handle: %w", err)
	}
	return users, nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []uint64) (map[uint64]*User, error) {
	out := make(map[uint64]*User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []*User
	if err := s.conn(ctx).Where("id IN ?", lo.Uniq(ids)).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (s *Store) HandleOrEmailTaken(ctx context.Context, handle, email string) (bool, error) {
	var count int64
	err := s.conn(ctx).Model(&User{}).
		Where("handle = ? OR email = ?", handle, email).
		Count(&count).Error
	return count > 0, err
}

// SearchUsers returns a superset of users whose handle, username or bio contain any keyword.
func (s *Store) SearchUsers(ctx context.Context, keywords []string) ([]User, error) {
	var users []User
	if len(keywords) == 0 {
		return users, nil
	}

	clauses := make([]string, 0, len(keywords))
	args := make([]interface{}, 0, len(keywords)*3)
	for _, kw := range keywords {
		pattern := containsPattern(kw)
		clauses = append(clauses, "LOWER(handle) LIKE ? ESCAPE '!' OR LOWER(username) LIKE ? ESCAPE '!' OR LOWER(bio) LIKE ? ESCAPE '!'")
		args = append(args, pattern, pattern, pattern)
	}

	err := s.conn(ctx).Where("("+strings.Join(clauses, " OR ")+")", args...).Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// likeEscaper quotes LIKE wildcards with '!', which every supported dialect
// accepts as a one-character ESCAPE literal.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern matches kw literally anywhere in a column.
func containsPattern(kw string) string {
	return "%" + likeEscaper.Replace(kw) + "%"
}

func (s *Store) CreateFollow(ctx context.Context, follow *Follow) error {
	return s.conn(ctx).Create(follow).Error
}

// DeleteFollow reports whether a follow existed.
func (s *Store) DeleteFollow(ctx context.Context, followerID, followingID uint64) (bool, error) {
	res := s.conn(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&Follow{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to unfollow: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) FollowingIDs(ctx context.Context, followerID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.conn(ctx).Model(&Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return ids, nil
}

// FollowedAmong returns the subset of ids that follower follows.
func (s *Store) FollowedAmong(ctx context.Context, followerID uint64, ids []uint64) (map[uint64]bool, error) {
	out := map[uint64]bool{}
	if followerID == 0 || len(ids) == 0 {
		return out, nil
	}
	var hits []uint64
	err := s.conn(ctx).Model(&Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, ids).
		Pluck("following_id", &hits).Error
	if err != nil {
		return nil, err
	}
	for _, id := range hits {
		out[id] = true
	}
	return out, nil
}

func (s *Store) CountFollowers(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	return s.countGrouped(ctx, &Follow{}, "following_id", ids)
}

func (s *Store) CountFollowing(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	return s.countGrouped(ctx, &Follow{}, "follower_id", ids)
}

// FollowerPage lists who follows userID (followers=true) or whom userID follows,
// newest follow first.
func (s *Store) FollowerPage(ctx context.Context, userID uint64, followers bool, token string) ([]User, common.Page, error) {
	match, other := "following_id", "follower_id"
	if !followers {
		match, other = "follower_id", "following_id"
	}

	var total int64
	if err := s.conn(ctx).Model(&Follow{}).Where(match+" = ?", userID).Count(&total).Error; err != nil {
		return nil, common.Page{}, err
	}
	page, offset, limit := common.Window(int(total), common.PageSize, token)

	var users []User
	err := s.conn(ctx).
		Select("users.*").
		Joins("JOIN follows ON follows."+other+" = users.id").
		Where("follows."+match+" = ?", userID).
		Order("follows.created_at DESC").Order("follows.id DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, common.Page{}, fmt.Errorf("failed to list follows: %w", err)
	}
	return users, page, nil
}
