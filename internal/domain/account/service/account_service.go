package service

import (
	"context"
	"errors"
	"fmt"
	"pawsay/internal/domain/account/model"
	"pawsay/internal/domain/account/repository"
	baseModel "pawsay/pkg/model"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account deactivated")
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmptyUsername      = errors.New("username is required")
)

// SignupInput 注册参数
type SignupInput struct {
	Username  string
	Email     string
	Password  string
	AvatarURL string
}

// Observer 账号变更观察者，每次账号写入成功后回调
type Observer interface {
	AccountChanged(ctx context.Context, acc model.Account)
}

// ObserverFunc 函数适配器
type ObserverFunc func(ctx context.Context, acc model.Account)

func (f ObserverFunc) AccountChanged(ctx context.Context, acc model.Account) { f(ctx, acc) }

// AccountService 账号服务接口
type AccountService interface {
	Signup(ctx context.Context, in SignupInput) (*model.Account, error)
	Authenticate(ctx context.Context, email, password string) (*model.Account, error)
	Get(ctx context.Context, id string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	UpdateProfile(ctx context.Context, id, username, avatarURL string) (*model.Account, error)
	Subscribe(ctx context.Context, id string) (*model.Account, error)
	Warn(ctx context.Context, id string) (*model.Account, error)
	SetDeactivated(ctx context.Context, id string, deactivated bool) (*model.Account, error)
	Observe(o Observer)
}

type accountService struct {
	repo   repository.AccountRepository
	hasher CredentialHasher
	clock  clockwork.Clock
	log    *zap.Logger

	mu        sync.RWMutex
	observers []Observer
}

// NewAccountService 创建账号服务
func NewAccountService(repo repository.AccountRepository, hasher CredentialHasher, clock clockwork.Clock, log *zap.Logger) AccountService {
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &accountService{repo: repo, hasher: hasher, clock: clock, log: log}
}

// isAdminName 用户名包含 admin（不区分大小写）即视为管理员
func isAdminName(username string) bool {
	return strings.Contains(strings.ToLower(username), "admin")
}

func (s *accountService) Signup(ctx context.Context, in SignupInput) (*model.Account, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	credential, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash credential: %w", err)
	}

	acc := &model.Account{
		BaseModel: baseModel.NewBaseModel(s.clock.Now()),
		Username:  username,
		Email:     email,
		Password:  credential,
		AvatarURL: in.AvatarURL,
	}
	err = s.repo.Create(ctx, acc, func(a *model.Account, first bool) {
		// 管理员身份只在创建时决定
		a.IsAdmin = first || isAdminName(a.Username)
	})
	if errors.Is(err, repository.ErrEmailExists) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("account created", zap.String("account_id", acc.ID), zap.Bool("admin", acc.IsAdmin))
	return acc, nil
}

func (s *accountService) Authenticate(ctx context.Context, email, password string) (*model.Account, error) {
	acc, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Verify(acc.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if acc.IsDeactivated {
		return nil, ErrAccountDeactivated
	}
	return acc, nil
}

func (s *accountService) Get(ctx context.Context, id string) (*model.Account, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	return acc, err
}

func (s *accountService) List(ctx context.Context) ([]model.Account, error) {
	return s.repo.List(ctx)
}

func (s *accountService) UpdateProfile(ctx context.Context, id, username, avatarURL string) (*model.Account, error) {
	username = strings.TrimSpace(username)
	return s.update(ctx, id, func(acc *model.Account) error {
		if username != "" {
			acc.Username = username
		}
		if avatarURL != "" {
			acc.AvatarURL = avatarURL
		}
		return nil
	})
}

func (s *accountService) Subscribe(ctx context.Context, id string) (*model.Account, error) {
	return s.update(ctx, id, func(acc *model.Account) error {
		acc.IsSubscribed = true
		return nil
	})
}

func (s *accountService) Warn(ctx context.Context, id string) (*model.Account, error) {
	return s.update(ctx, id, func(acc *model.Account) error {
		acc.Warnings++
		return nil
	})
}

func (s *accountService) SetDeactivated(ctx context.Context, id string, deactivated bool) (*model.Account, error) {
	return s.update(ctx, id, func(acc *model.Account) error {
		acc.IsDeactivated = deactivated
		return nil
	})
}

func (s *accountService) Observe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// update 写入后通知所有观察者
func (s *accountService) update(ctx context.Context, id string, fn func(acc *model.Account) error) (*model.Account, error) {
	acc, err := s.repo.Update(ctx, id, fn)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	observers := append([]Observer(nil), s.observers...)
	s.mu.RUnlock()
	for _, o := range observers {
		o.AccountChanged(ctx, *acc)
	}
	return acc, nil
}
