package repository

import (
	"context"
	"errors"
	"pawsay/internal/domain/pet/model"
	"pawsay/pkg/kvstore"
)

var ErrNotFound = errors.New("profile not found")

// ProfileRepository 宠物档案仓库
type ProfileRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.PetProfile, error)
	Get(ctx context.Context, id string) (*model.PetProfile, error)
	Create(ctx context.Context, p *model.PetProfile) error
	Update(ctx context.Context, id string, fn func(p *model.PetProfile) error) (*model.PetProfile, error)
	// Delete 删除后返回同一主人剩余的档案
	Delete(ctx context.Context, id string) ([]model.PetProfile, error)
}

type profileRepository struct {
	profiles *kvstore.Collection[model.PetProfile]
}

func NewProfileRepository(store kvstore.Store) ProfileRepository {
	return &profileRepository{profiles: kvstore.NewCollection[model.PetProfile](store, kvstore.KeyProfiles)}
}

func (r *profileRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.PetProfile, error) {
	items, err := r.profiles.Load(ctx)
	if err != nil {
		return nil, err
	}
	return byOwner(items, ownerID), nil
}

func (r *profileRepository) Get(ctx context.Context, id string) (*model.PetProfile, error) {
	items, err := r.profiles.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			p := items[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *profileRepository) Create(ctx context.Context, p *model.PetProfile) error {
	_, err := r.profiles.Mutate(ctx, func(items []model.PetProfile) ([]model.PetProfile, error) {
		return append(items, *p), nil
	})
	return err
}

func (r *profileRepository) Update(ctx context.Context, id string, fn func(p *model.PetProfile) error) (*model.PetProfile, error) {
	var updated model.PetProfile
	_, err := r.profiles.Mutate(ctx, func(items []model.PetProfile) ([]model.PetProfile, error) {
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
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *profileRepository) Delete(ctx context.Context, id string) ([]model.PetProfile, error) {
	var ownerID string
	items, err := r.profiles.Mutate(ctx, func(items []model.PetProfile) ([]model.PetProfile, error) {
		for i := range items {
			if items[i].ID == id {
				ownerID = items[i].OwnerID
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return byOwner(items, ownerID), nil
}

func byOwner(items []model.PetProfile, ownerID string) []model.PetProfile {
	out := make([]model.PetProfile, 0, len(items))
	for _, p := range items {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out
}
