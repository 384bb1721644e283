package service

import (
	"context"
	"errors"
	"fmt"
	accountModel "pawsay/internal/domain/account/model"
	accountService "pawsay/internal/domain/account/service"
	"pawsay/internal/domain/session/model"
	"pawsay/internal/domain/session/repository"
	"pawsay/pkg/utils"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSessionNotFound    = errors.New("session not found")
	ErrAccountDeactivated = accountService.ErrAccountDeactivated
)

// Issued 新签发的会话
type Issued struct {
	Token     string         `json:"token"`
	ExpiresAt int64          `json:"expiresAt"`
	Session   *model.Session `json:"session"`
}

// SessionService 会话服务接口
type SessionService interface {
	StartGuest(ctx context.Context, deviceID string) (*Issued, error)
	Signup(ctx context.Context, in accountService.SignupInput, deviceID string) (*Issued, error)
	Login(ctx context.Context, email, password, deviceID string) (*Issued, error)
	// Restore 解析 token 并以账号记录为准刷新会话
	Restore(ctx context.Context, token string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	SetSelectedProfile(ctx context.Context, sessionID, profileID string) (*model.Session, error)
	AcceptConsent(ctx context.Context, sess *model.Session) error
	HasConsent(ctx context.Context, sess *model.Session) (bool, error)
	// AccountChanged 账号写入后的对齐回调
	AccountChanged(ctx context.Context, acc accountModel.Account)
}

type sessionService struct {
	repo     repository.SessionRepository
	accounts accountService.AccountService
	tokens   *utils.TokenManager
	clock    clockwork.Clock
	log      *zap.Logger
}

// NewSessionService 创建会话服务，并注册为账号变更观察者
func NewSessionService(repo repository.SessionRepository, accounts accountService.AccountService, tokens *utils.TokenManager, clock clockwork.Clock, log *zap.Logger) SessionService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &sessionService{repo: repo, accounts: accounts, tokens: tokens, clock: clock, log: log}
	accounts.Observe(s)
	return s
}

func (s *sessionService) StartGuest(ctx context.Context, deviceID string) (*Issued, error) {
	return s.issue(ctx, &model.Session{Guest: true, DeviceID: deviceID})
}

func (s *sessionService) Signup(ctx context.Context, in accountService.SignupInput, deviceID string) (*Issued, error) {
	acc, err := s.accounts.Signup(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issueFor(ctx, acc, deviceID)
}

func (s *sessionService) Login(ctx context.Context, email, password, deviceID string) (*Issued, error) {
	acc, err := s.accounts.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.issueFor(ctx, acc, deviceID)
}

func (s *sessionService) issueFor(ctx context.Context, acc *accountModel.Account, deviceID string) (*Issued, error) {
	return s.issue(ctx, &model.Session{
		AccountID: acc.ID,
		DeviceID:  deviceID,
		Account:   model.SnapshotOf(*acc),
	})
}

func (s *sessionService) issue(ctx context.Context, sess *model.Session) (*Issued, error) {
	now := s.clock.Now()
	sess.ID = uuid.New().String()
	sess.CreatedAt = now

	token, expiresAt, err := s.tokens.GenerateToken(sess.ID, sess.AccountID, sess.Guest, now)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	sess.ExpiresAt = expiresAt

	if err := s.repo.Create(ctx, sess, now); err != nil {
		return nil, err
	}
	s.log.Debug("session issued", zap.String("session_id", sess.ID), zap.Bool("guest", sess.Guest))
	return &Issued{Token: token, ExpiresAt: expiresAt.UnixMilli(), Session: sess}, nil
}

func (s *sessionService) Restore(ctx context.Context, token string) (*model.Session, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	sess, err := s.repo.Get(ctx, claims.SessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.clock.Now()) {
		_ = s.repo.Delete(ctx, sess.ID)
		return nil, ErrInvalidToken
	}
	if sess.Guest {
		return sess, nil
	}

	acc, err := s.accounts.Get(ctx, sess.AccountID)
	if errors.Is(err, accountService.ErrAccountNotFound) {
		_ = s.repo.Delete(ctx, sess.ID)
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if acc.IsDeactivated {
		if err := s.repo.Delete(ctx, sess.ID); err != nil {
			s.log.Warn("drop deactivated session", zap.String("session_id", sess.ID), zap.Error(err))
		}
		return nil, ErrAccountDeactivated
	}

	snapshot := model.SnapshotOf(*acc)
	if sess.Account == nil || *sess.Account != *snapshot {
		updated, err := s.repo.Update(ctx, sess.ID, func(cur *model.Session) error {
			cur.Account = snapshot
			return nil
		})
		if err != nil {
			return nil, err
		}
		sess = updated
	}
	return sess, nil
}

func (s *sessionService) Logout(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

func (s *sessionService) SetSelectedProfile(ctx context.Context, sessionID, profileID string) (*model.Session, error) {
	sess, err := s.repo.Update(ctx, sessionID, func(cur *model.Session) error {
		cur.SelectedProfileID = profileID
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

func (s *sessionService) AcceptConsent(ctx context.Context, sess *model.Session) error {
	return s.repo.AcceptConsent(ctx, sess.ConsentDevice(), s.clock.Now())
}

func (s *sessionService) HasConsent(ctx context.Context, sess *model.Session) (bool, error) {
	return s.repo.HasConsent(ctx, sess.ConsentDevice())
}

func (s *sessionService) AccountChanged(ctx context.Context, acc accountModel.Account) {
	if acc.IsDeactivated {
		n, err := s.repo.DeleteByAccount(ctx, acc.ID)
		if err != nil {
			s.log.Error("force logout failed", zap.String("account_id", acc.ID), zap.Error(err))
			return
		}
		s.log.Info("sessions revoked", zap.String("account_id", acc.ID), zap.Int("count", n))
		return
	}

	snapshot := model.SnapshotOf(acc)
	err := s.repo.UpdateByAccount(ctx, acc.ID, func(sess *model.Session) {
		sess.Account = snapshot
	})
	if err != nil {
		s.log.Error("refresh session snapshot failed", zap.String("account_id", acc.ID), zap.Error(err))
	}
}
