package user

import (
	"context"

	"github.com/samber/lo"

	"gotwitter/internal/dbmysql"
)

// Card is a user as listed in profiles, follow lists and people search.
type Card struct {
	ID        uint64 `json:"id"`
	Handle    string `json:"handle"`
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Followers int64  `json:"followers"`
	Following int64  `json:"following"`
	IFollow   bool   `json:"i_follow"`
}

// Cards renders users with follow counts and whether viewer follows each one.
func Cards(ctx context.Context, store *dbmysql.Store, users []dbmysql.User, viewer uint64) ([]Card, error) {
	out := make([]Card, 0, len(users))
	if len(users) == 0 {
		return out, nil
	}

	ids := lo.Map(users, func(u dbmysql.User, _ int) uint64 { return u.ID })
	followers, err := store.CountFollowers(ctx, ids)
	if err != nil {
		return nil, err
	}
	following, err := store.CountFollowing(ctx, ids)
	if err != nil {
		return nil, err
	}
	followed, err := store.FollowedAmong(ctx, viewer, ids)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		out = append(out, Card{
			ID:        u.ID,
			Handle:    u.Handle,
			Username:  u.Username,
			Bio:       u.Bio,
			Followers: followers[u.ID],
			Following: following[u.ID],
			IFollow:   followed[u.ID],
		})
	}
	return out, nil
}
