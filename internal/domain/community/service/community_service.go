package service

import (
	"context"
	"errors"
	"fmt"
	"pawsay/internal/domain/community/model"
	"pawsay/internal/domain/community/repository"
	"pawsay/internal/pkg/notify"
	"pawsay/pkg/metrics"
	baseModel "pawsay/pkg/model"
	"pawsay/pkg/security"
	"pawsay/pkg/utils"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrEmptyPost       = errors.New("post needs text or an image")
	ErrEmptyComment    = errors.New("comment text is empty")
	ErrUnsafeImage     = errors.New("unsafe image url")
	ErrAlreadyReported = errors.New("already reported")
)

// ReportResult 举报结果
type ReportResult struct {
	ReportID    string `json:"reportId"`
	ReportCount int    `json:"reportCount"`
	Hidden      bool   `json:"hidden"`
}

// Feed 社区信息流
type Feed struct {
	Posts       []model.PostView `json:"posts"`
	Total       int64            `json:"total"`
	HiddenCount int              `json:"hiddenCount"`
}

// LikeResult 点赞结果
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

// CommunityService 社区服务
type CommunityService interface {
	CreatePost(ctx context.Context, author model.Author, text, imageURL string) (*model.Post, error)
	ToggleLike(ctx context.Context, postID, accountID string) (*LikeResult, error)
	Report(ctx context.Context, postID, reporterID, reason string) (*ReportResult, error)
	Comment(ctx context.Context, postID string, author model.Author, text string) (*model.Comment, error)
	Feed(ctx context.Context, viewerID string, page utils.Pagination) (*Feed, error)
}

type communityService struct {
	posts    repository.PostRepository
	reports  repository.ReportRepository
	notifier notify.Notifier
	metrics  *metrics.Collector
	clock    clockwork.Clock
	log      *zap.Logger
}

func NewCommunityService(posts repository.PostRepository, reports repository.ReportRepository, notifier notify.Notifier, collector *metrics.Collector, clock clockwork.Clock, log *zap.Logger) CommunityService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &communityService{posts: posts, reports: reports, notifier: notifier, metrics: collector, clock: clock, log: log}
}

func (s *communityService) CreatePost(ctx context.Context, author model.Author, text, imageURL string) (*model.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" && imageURL == "" {
		return nil, ErrEmptyPost
	}
	if imageURL != "" && !security.IsSafeImageURL(imageURL) {
		return nil, ErrUnsafeImage
	}

	post := &model.Post{
		BaseModel: baseModel.NewBaseModel(s.clock.Now()),
		Author:    author,
		Text:      text,
		ImageURL:  imageURL,
		Likes:     []string{},
		Reports:   []string{},
		Comments:  []model.Comment{},
	}
	if err := s.posts.Prepend(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *communityService) ToggleLike(ctx context.Context, postID, accountID string) (*LikeResult, error) {
	var res LikeResult
	_, err := s.posts.Update(ctx, postID, func(p *model.Post) error {
		if p.LikedBy(accountID) {
			p.Likes = remove(p.Likes, accountID)
		} else {
			p.Likes = append(p.Likes, accountID)
			res.Liked = true
		}
		res.LikeCount = len(p.Likes)
		return nil
	})
	if err != nil {
		return nil, s.mapErr(err)
	}
	return &res, nil
}

func (s *communityService) Report(ctx context.Context, postID, reporterID, reason string) (*ReportResult, error) {
	var wasHidden bool
	post, err := s.posts.Update(ctx, postID, func(p *model.Post) error {
		if p.ReportedBy(reporterID) {
			return ErrAlreadyReported
		}
		wasHidden = p.Hidden()
		p.Reports = append(p.Reports, reporterID)
		return nil
	})
	if err != nil {
		return nil, s.mapErr(err)
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = model.DefaultReportReason
	}
	report := &model.Report{
		ID:         uuid.New().String(),
		PostID:     postID,
		ReporterID: reporterID,
		Reason:     reason,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.reports.Append(ctx, report); err != nil {
		// 举报记录没写进去，撤回帖子上的举报，允许用户重试
		if _, rbErr := s.posts.Update(ctx, postID, func(p *model.Post) error {
			p.Reports = remove(p.Reports, reporterID)
			return nil
		}); rbErr != nil {
			s.log.Error("report rollback failed",
				zap.String("post_id", postID), zap.String("reporter_id", reporterID), zap.Error(rbErr))
		}
		return nil, err
	}

	res := &ReportResult{ReportID: report.ID, ReportCount: len(post.Reports), Hidden: post.Hidden()}
	s.metrics.Report(res.Hidden)
	if res.Hidden && !wasHidden {
		s.log.Info("post auto-hidden", zap.String("post_id", postID), zap.Int("reports", res.ReportCount))
		s.notifier.AlertAdmins("Post hidden pending review",
			fmt.Sprintf("Post %s by %s received %d reports and is hidden from the feed.", postID, post.AuthorName, res.ReportCount))
	}
	return res, nil
}

func (s *communityService) Comment(ctx context.Context, postID string, author model.Author, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	comment := model.Comment{
		BaseModel: baseModel.NewBaseModel(s.clock.Now()),
		Author:    author,
		Text:      text,
	}
	_, err := s.posts.Update(ctx, postID, func(p *model.Post) error {
		p.Comments = append(p.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, s.mapErr(err)
	}
	return &comment, nil
}

func (s *communityService) Feed(ctx context.Context, viewerID string, page utils.Pagination) (*Feed, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]model.PostView, 0, len(posts))
	hidden := 0
	for i := range posts {
		if posts[i].Hidden() {
			hidden++
			continue
		}
		visible = append(visible, posts[i].ViewFor(viewerID))
	}

	offset, limit := page.GetPageOffset()
	items, total := utils.Paginate(visible, offset, limit)
	return &Feed{Posts: items, Total: total, HiddenCount: hidden}, nil
}

func (s *communityService) mapErr(err error) error {
	if errors.Is(err, repository.ErrPostNotFound) {
		return ErrPostNotFound
	}
	return err
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
