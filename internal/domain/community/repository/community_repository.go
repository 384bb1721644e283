package repository

import (
	"context"
	"errors"
	"pawsay/internal/domain/community/model"
	"pawsay/pkg/kvstore"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrReportNotFound = errors.New("report not found")
)

// PostRepository 帖子集合，按发布时间倒序保存
type PostRepository interface {
	List(ctx context.Context) ([]model.Post, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	Prepend(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, id string, fn func(post *model.Post) error) (*model.Post, error)
	Delete(ctx context.Context, id string) error
}

// ReportRepository 举报集合
type ReportRepository interface {
	List(ctx context.Context) ([]model.Report, error)
	Append(ctx context.Context, report *model.Report) error
	Delete(ctx context.Context, id string) (*model.Report, error)
	DeleteByPost(ctx context.Context, postID string) (int, error)
}

type postRepository struct {
	posts *kvstore.Collection[model.Post]
}

func NewPostRepository(store kvstore.Store) PostRepository {
	return &postRepository{posts: kvstore.NewCollection[model.Post](store, kvstore.KeyPosts)}
}

func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	return r.posts.Load(ctx)
}

func (r *postRepository) Get(ctx context.Context, id string) (*model.Post, error) {
	items, err := r.posts.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			p := items[i]
			return &p, nil
		}
	}
	return nil, ErrPostNotFound
}

func (r *postRepository) Prepend(ctx context.Context, post *model.Post) error {
	_, err := r.posts.Mutate(ctx, func(items []model.Post) ([]model.Post, error) {
		return append([]model.Post{*post}, items...), nil
	})
	return err
}

func (r *postRepository) Update(ctx context.Context, id string, fn func(post *model.Post) error) (*model.Post, error) {
	var updated model.Post
	_, err := r.posts.Mutate(ctx, func(items []model.Post) ([]model.Post, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			if err := fn(&items[i]); err != nil {
				return nil, err
			}
			updated = items[i]
			return items, nil
		}
		return nil, ErrPostNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	_, err := r.posts.Mutate(ctx, func(items []model.Post) ([]model.Post, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrPostNotFound
	})
	return err
}

type reportRepository struct {
	reports *kvstore.Collection[model.Report]
}

func NewReportRepository(store kvstore.Store) ReportRepository {
	return &reportRepository{reports: kvstore.NewCollection[model.Report](store, kvstore.KeyReports)}
}

func (r *reportRepository) List(ctx context.Context) ([]model.Report, error) {
	return r.reports.Load(ctx)
}

func (r *reportRepository) Append(ctx context.Context, report *model.Report) error {
	_, err := r.reports.Mutate(ctx, func(items []model.Report) ([]model.Report, error) {
		return append(items, *report), nil
	})
	return err
}

func (r *reportRepository) Delete(ctx context.Context, id string) (*model.Report, error) {
	var removed model.Report
	_, err := r.reports.Mutate(ctx, func(items []model.Report) ([]model.Report, error) {
		for i := range items {
			if items[i].ID == id {
				removed = items[i]
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrReportNotFound
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

func (r *reportRepository) DeleteByPost(ctx context.Context, postID string) (int, error) {
	removed := 0
	_, err := r.reports.Mutate(ctx, func(items []model.Report) ([]model.Report, error) {
		kept := items[:0]
		for _, rep := range items {
			if rep.PostID == postID {
				removed++
				continue
			}
			kept = append(kept, rep)
		}
		return kept, nil
	})
	return removed, err
}
