// Package user covers accounts, profiles and the follow graph.
package user

//go:generate mockgen -source=service.go -destination=mock_service.go -package=user

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"gotwitter/internal/common"
	"gotwitter/internal/dbmysql"
)

// Me stands for the authenticated viewer wherever a handle is expected.
const Me = "me"

type SignupRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Bio      string `json:"bio" validate:"max=255"`
}

type LoginRequest struct {
	Handle   string `json:"handle" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserID uint64 `json:"user_id"`
}

type FollowRequest struct {
	UserID uint64 `json:"user_id" validate:"gt=0"`
}

// Notifier is told about new follows inside the follow transaction.
type Notifier interface {
	Followed(ctx context.Context, actorID, followedID uint64)
}

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Profile(ctx context.Context, handle string, viewer uint64) (*Card, error)
	Follow(ctx context.Context, actorID, targetID uint64) error
	Unfollow(ctx context.Context, actorID uint64, handle string) error
	FollowList(ctx context.Context, handle string, followers bool, viewer uint64, token string) (*common.Listing[Card], error)
}

type UserService struct {
	store    *dbmysql.Store
	tokens   *common.TokenManager
	notifier Notifier
	now      common.Clock
}

func NewUserService(store *dbmysql.Store, tokens *common.TokenManager, notifier Notifier) *UserService {
	return &UserService{
		store:    store,
		tokens:   tokens,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) SetClock(clock common.Clock) {
	s.now = clock
}

func (s *UserService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	req.Handle = strings.TrimSpace(req.Handle)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := common.ValidateStruct(req); err != nil {
		return nil, common.InvalidArgument(err.Error())
	}
	if err := common.ValidateHandle(req.Handle); err != nil {
		return nil, common.InvalidArgument(err.Error())
	}
	if err := common.ValidatePassword(req.Password); err != nil {
		return nil, common.InvalidArgument(err.Error())
	}

	taken, err := s.store.HandleOrEmailTaken(ctx, req.Handle, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.Conflict("handle or email already taken")
	}

	hashed, err := common.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &dbmysql.User{
		Handle:       req.Handle,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Bio:          req.Bio,
		CreatedAt:    s.now(),
	}
	err = s.store.CreateUser(ctx, user)
	if dbmysql.IsDuplicateKey(err) {
		return nil, common.Conflict("handle or email already taken")
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user": user.ID, "handle": user.Handle}).Info("user signed up")
	return s.issue(user)
}

func (s *UserService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, common.InvalidArgument(err.Error())
	}

	user, err := s.store.UserByHandle(ctx, strings.TrimSpace(req.Handle))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.Unauthenticated("invalid handle or password")
	}
	if err != nil {
		return nil, err
	}
	if err := common.CheckPassword(req.Password, user.PasswordHash); err != nil {
		return nil, common.Unauthenticated("invalid handle or password")
	}
	return s.issue(user)
}

func (s *UserService) issue(user *dbmysql.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Handle)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, UserID: user.ID}, nil
}

// lookup resolves a handle or "me".
func (s *UserService) lookup(ctx context.Context, handle string, viewer uint64) (*dbmysql.User, error) {
	if handle == Me {
		if viewer == 0 {
			return nil, common.Unauthenticated("authentication required")
		}
		user, err := s.store.UserByID(ctx, viewer)
		return user, common.NotFoundIf(err, "user not found")
	}
	user, err := s.store.UserByHandle(ctx, handle)
	return user, common.NotFoundIf(err, "user not found")
}

func (s *UserService) Profile(ctx context.Context, handle string, viewer uint64) (*Card, error) {
	user, err := s.lookup(ctx, handle, viewer)
	if err != nil {
		return nil, err
	}
	cards, err := Cards(ctx, s.store, []dbmysql.User{*user}, viewer)
	if err != nil {
		return nil, err
	}
	return &cards[0], nil
}

func (s *UserService) Follow(ctx context.Context, actorID, targetID uint64) error {
	if actorID == targetID {
		return common.InvalidArgument("you cannot follow yourself")
	}

	return s.store.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.store.UserByID(ctx, targetID); err != nil {
			return common.NotFoundIf(err, "user not found")
		}
		err := s.store.CreateFollow(ctx, &dbmysql.Follow{FollowerID: actorID, FollowingID: targetID, CreatedAt: s.now()})
		if dbmysql.IsDuplicateKey(err) {
			return common.Conflict("already following")
		}
		if err != nil {
			return err
		}
		s.notifier.Followed(ctx, actorID, targetID)
		return nil
	})
}

func (s *UserService) Unfollow(ctx context.Context, actorID uint64, handle string) error {
	target, err := s.store.UserByHandle(ctx, handle)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.InvalidArgument("no such user")
	}
	if err != nil {
		return err
	}

	existed, err := s.store.DeleteFollow(ctx, actorID, target.ID)
	if err != nil {
		return err
	}
	if !existed {
		return common.InvalidArgument("you are not following this user")
	}
	return nil
}

func (s *UserService) FollowList(ctx context.Context, handle string, followers bool, viewer uint64, token string) (*common.Listing[Card], error) {
	user, err := s.lookup(ctx, handle, viewer)
	if err != nil {
		return nil, err
	}
	users, page, err := s.store.FollowerPage(ctx, user.ID, followers, token)
	if err != nil {
		return nil, err
	}
	cards, err := Cards(ctx, s.store, users, viewer)
	if err != nil {
		return nil, err
	}
	return common.NewListing(cards, page), nil
}
