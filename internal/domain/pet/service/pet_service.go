package service

import (
	"context"
	"errors"
	"pawsay/internal/domain/pet/model"
	"pawsay/internal/domain/pet/repository"
	sessionModel "pawsay/internal/domain/session/model"
	baseModel "pawsay/pkg/model"
	"pawsay/pkg/security"
	"strings"

	"github.com/jonboulle/clockwork"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNameRequired    = errors.New("pet name is required")
	ErrInvalidSpecies  = errors.New("species must be cat or dog")
	ErrUnsafeImage     = errors.New("unsafe image url")
)

// ProfileInput 创建/修改档案的参数
type ProfileInput struct {
	Name        string
	Species     string
	Breed       string
	Age         string
	Personality string
	ImageURL    string
}

// SelectionStore 记录会话当前选中的档案
type SelectionStore interface {
	SetSelectedProfile(ctx context.Context, sessionID, profileID string) (*sessionModel.Session, error)
}

// PetService 宠物档案服务
type PetService interface {
	Create(ctx context.Context, sess *sessionModel.Session, in ProfileInput) (*model.PetProfile, error)
	List(ctx context.Context, sess *sessionModel.Session) ([]model.PetProfile, error)
	Get(ctx context.Context, sess *sessionModel.Session, id string) (*model.PetProfile, error)
	Update(ctx context.Context, sess *sessionModel.Session, id string, in ProfileInput) (*model.PetProfile, error)
	Delete(ctx context.Context, sess *sessionModel.Session, id string) (*sessionModel.Session, error)
	Select(ctx context.Context, sess *sessionModel.Session, id string) (*sessionModel.Session, error)
	// Selected 会话当前选中的档案，没有时返回 nil
	Selected(ctx context.Context, sess *sessionModel.Session) (*model.PetProfile, error)
}

type petService struct {
	repo      repository.ProfileRepository
	selection SelectionStore
	clock     clockwork.Clock
}

func NewPetService(repo repository.ProfileRepository, selection SelectionStore, clock clockwork.Clock) PetService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &petService{repo: repo, selection: selection, clock: clock}
}

func validate(in ProfileInput) (model.Species, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", ErrNameRequired
	}
	species, ok := model.ParseSpecies(in.Species)
	if !ok {
		return "", ErrInvalidSpecies
	}
	if in.ImageURL != "" && !security.IsSafeImageURL(in.ImageURL) {
		return "", ErrUnsafeImage
	}
	return species, nil
}

func (s *petService) Create(ctx context.Context, sess *sessionModel.Session, in ProfileInput) (*model.PetProfile, error) {
	species, err := validate(in)
	if err != nil {
		return nil, err
	}
	p := &model.PetProfile{
		BaseModel:   baseModel.NewBaseModel(s.clock.Now()),
		OwnerID:     sess.OwnerID(),
		Species:     species,
		Name:        strings.TrimSpace(in.Name),
		Breed:       strings.TrimSpace(in.Breed),
		Age:         strings.TrimSpace(in.Age),
		Personality: strings.TrimSpace(in.Personality),
		ImageURL:    in.ImageURL,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	// 新建档案自动选中
	if _, err := s.selection.SetSelectedProfile(ctx, sess.ID, p.ID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *petService) List(ctx context.Context, sess *sessionModel.Session) ([]model.PetProfile, error) {
	return s.repo.ListByOwner(ctx, sess.OwnerID())
}

func (s *petService) Get(ctx context.Context, sess *sessionModel.Session, id string) (*model.PetProfile, error) {
	p, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && p.OwnerID != sess.OwnerID()) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

func (s *petService) Update(ctx context.Context, sess *sessionModel.Session, id string, in ProfileInput) (*model.PetProfile, error) {
	species, err := validate(in)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.Update(ctx, id, func(p *model.PetProfile) error {
		if p.OwnerID != sess.OwnerID() {
			return ErrProfileNotFound
		}
		p.Species = species
		p.Name = strings.TrimSpace(in.Name)
		p.Breed = strings.TrimSpace(in.Breed)
		p.Age = strings.TrimSpace(in.Age)
		p.Personality = strings.TrimSpace(in.Personality)
		if in.ImageURL != "" {
			p.ImageURL = in.ImageURL
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

func (s *petService) Delete(ctx context.Context, sess *sessionModel.Session, id string) (*sessionModel.Session, error) {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return nil, err
	}
	remaining, err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.SelectedProfileID != id {
		return sess, nil
	}

	next := ""
	if len(remaining) > 0 {
		next = remaining[0].ID
	}
	return s.selection.SetSelectedProfile(ctx, sess.ID, next)
}

func (s *petService) Select(ctx context.Context, sess *sessionModel.Session, id string) (*sessionModel.Session, error) {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return nil, err
	}
	return s.selection.SetSelectedProfile(ctx, sess.ID, id)
}

func (s *petService) Selected(ctx context.Context, sess *sessionModel.Session) (*model.PetProfile, error) {
	if sess.SelectedProfileID == "" {
		return nil, nil
	}
	p, err := s.Get(ctx, sess, sess.SelectedProfileID)
	if errors.Is(err, ErrProfileNotFound) {
		return nil, nil
	}
	return p, err
}
