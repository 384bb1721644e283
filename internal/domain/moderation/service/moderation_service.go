package service

import (
	"context"
	"errors"
	"fmt"
	accountModel "pawsay/internal/domain/account/model"
	accountService "pawsay/internal/domain/account/service"
	"pawsay/internal/domain/community/model"
	"pawsay/internal/domain/community/repository"
	"pawsay/internal/pkg/notify"
	"pawsay/pkg/metrics"

	"go.uber.org/zap"
)

var (
	ErrCannotDeactivateSelf = errors.New("cannot deactivate yourself")
	ErrReportNotFound       = errors.New("report not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrAccountNotFound      = accountService.ErrAccountNotFound
)

// ReportView 举报及其对应帖子的当前状态
type ReportView struct {
	model.Report
	Post        *model.Post `json:"post,omitempty"` // 帖子已删除时为空
	ReportCount int         `json:"reportCount"`
	AutoHidden  bool        `json:"autoHidden"`
}

// PostSummary 管理后台的帖子列表项
type PostSummary struct {
	model.Post
	ReportCount int  `json:"reportCount"`
	AutoHidden  bool `json:"autoHidden"`
}

// ModerationService 管理员操作
type ModerationService interface {
	ListReports(ctx context.Context) ([]ReportView, error)
	DismissReport(ctx context.Context, reportID string) error
	DeletePost(ctx context.Context, postID string) error
	ListPosts(ctx context.Context) ([]PostSummary, error)
	ListUsers(ctx context.Context) ([]accountModel.PublicAccount, error)
	ToggleDeactivation(ctx context.Context, actorID, targetID string) (*accountModel.Account, error)
	Deactivate(ctx context.Context, actorID, targetID string) (*accountModel.Account, error)
	Reactivate(ctx context.Context, actorID, targetID string) (*accountModel.Account, error)
	Warn(ctx context.Context, targetID string) (*accountModel.Account, error)
}

type moderationService struct {
	posts    repository.PostRepository
	reports  repository.ReportRepository
	accounts accountService.AccountService
	notifier notify.Notifier
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewModerationService(posts repository.PostRepository, reports repository.ReportRepository, accounts accountService.AccountService, notifier notify.Notifier, collector *metrics.Collector, log *zap.Logger) ModerationService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &moderationService{posts: posts, reports: reports, accounts: accounts, notifier: notifier, metrics: collector, log: log}
}

func (s *moderationService) ListReports(ctx context.Context) ([]ReportView, error) {
	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Post, len(posts))
	for i := range posts {
		byID[posts[i].ID] = &posts[i]
	}

	views := make([]ReportView, 0, len(reports))
	for _, r := range reports {
		v := ReportView{Report: r}
		if p, ok := byID[r.PostID]; ok {
			v.Post = p
			v.ReportCount = len(p.Reports)
			v.AutoHidden = p.Hidden()
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *moderationService) DismissReport(ctx context.Context, reportID string) error {
	report, err := s.reports.Delete(ctx, reportID)
	if errors.Is(err, repository.ErrReportNotFound) {
		return ErrReportNotFound
	}
	if err != nil {
		return err
	}

	// 驳回即视为帖子无问题，清空全部举报使其重新可见
	_, err = s.posts.Update(ctx, report.PostID, func(p *model.Post) error {
		p.Reports = []string{}
		return nil
	})
	if err != nil && !errors.Is(err, repository.ErrPostNotFound) {
		return err
	}
	s.metrics.Moderation("dismiss")
	s.log.Info("report dismissed", zap.String("report_id", reportID), zap.String("post_id", report.PostID))
	return nil
}

func (s *moderationService) DeletePost(ctx context.Context, postID string) error {
	err := s.posts.Delete(ctx, postID)
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	n, err := s.reports.DeleteByPost(ctx, postID)
	if err != nil {
		return err
	}
	s.metrics.Moderation("delete_post")
	s.log.Info("post removed", zap.String("post_id", postID), zap.Int("reports_purged", n))
	return nil
}

func (s *moderationService) ListPosts(ctx context.Context) ([]PostSummary, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostSummary{Post: p, ReportCount: len(p.Reports), AutoHidden: p.Hidden()})
	}
	return out, nil
}

func (s *moderationService) ListUsers(ctx context.Context) ([]accountModel.PublicAccount, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]accountModel.PublicAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Public())
	}
	return out, nil
}

func (s *moderationService) ToggleDeactivation(ctx context.Context, actorID, targetID string) (*accountModel.Account, error) {
	if actorID == targetID {
		return nil, ErrCannotDeactivateSelf
	}
	target, err := s.accounts.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return s.setDeactivated(ctx, targetID, !target.IsDeactivated)
}

func (s *moderationService) Deactivate(ctx context.Context, actorID, targetID string) (*accountModel.Account, error) {
	if actorID == targetID {
		return nil, ErrCannotDeactivateSelf
	}
	return s.setDeactivated(ctx, targetID, true)
}

func (s *moderationService) Reactivate(ctx context.Context, actorID, targetID string) (*accountModel.Account, error) {
	if actorID == targetID {
		return nil, ErrCannotDeactivateSelf
	}
	return s.setDeactivated(ctx, targetID, false)
}

func (s *moderationService) setDeactivated(ctx context.Context, targetID string, deactivated bool) (*accountModel.Account, error) {
	acc, err := s.accounts.SetDeactivated(ctx, targetID, deactivated)
	if err != nil {
		return nil, err
	}
	action := "reactivate"
	if deactivated {
		action = "deactivate"
	}
	s.metrics.Moderation(action)
	s.log.Info("account status updated", zap.String("account_id", targetID), zap.Bool("deactivated", deactivated))
	return acc, nil
}

func (s *moderationService) Warn(ctx context.Context, targetID string) (*accountModel.Account, error) {
	acc, err := s.accounts.Warn(ctx, targetID)
	if err != nil {
		return nil, err
	}
	s.metrics.Moderation("warn")
	s.notifier.NotifyAccount(acc.ID, "Community warning",
		fmt.Sprintf("An admin has issued you a warning (%d total). Please follow the PawSay community rules.", acc.Warnings))
	return acc, nil
}
