package pet

import (
	"pawsay/internal/domain/pet/handler"
	"pawsay/internal/domain/pet/repository"
	"pawsay/internal/domain/pet/service"
	"pawsay/internal/pkg/registry"
)

// PetModule 宠物档案模块
type PetModule struct{}

func init() {
	registry.Register(&PetModule{})
}

func (m *PetModule) Name() string {
	return "pet"
}

func (m *PetModule) Priority() int {
	return 10
}

func (m *PetModule) Init(ctx *registry.ModuleContext) error {
	pets := service.NewPetService(repository.NewProfileRepository(ctx.Store), ctx.Services.Sessions, ctx.Clock)
	ctx.Services.Pets = pets
	h := handler.NewPetHandler(pets)

	g := ctx.Router.Group("/pets", ctx.Auth())
	{
		g.GET("", h.List)
		g.POST("", h.Create)
		g.PUT("/:id", h.Update)
		g.DELETE("/:id", h.Delete)
		g.POST("/:id/select", h.Select)
	}
	return nil
}
