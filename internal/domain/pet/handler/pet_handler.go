package handler

import (
	"errors"
	"net/http"

	"pawsay/internal/domain/pet/service"
	"pawsay/internal/pkg/middleware"
	"pawsay/pkg/response"

	"github.com/gin-gonic/gin"
)

// PetHandler 宠物档案处理器
type PetHandler struct {
	service service.PetService
}

func NewPetHandler(service service.PetService) *PetHandler {
	return &PetHandler{service: service}
}

// ProfileRequest 档案请求体
type ProfileRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type"`
	Breed       string `json:"breed"`
	Age         string `json:"age"`
	Personality string `json:"personality"`
	ImageURL    string `json:"imageUrl"`
}

func (r ProfileRequest) input() service.ProfileInput {
	return service.ProfileInput{
		Name:        r.Name,
		Species:     r.Type,
		Breed:       r.Breed,
		Age:         r.Age,
		Personality: r.Personality,
		ImageURL:    r.ImageURL,
	}
}

// List 当前会话的宠物档案
// @Summary 档案列表
// @Tags Pet
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.PetProfile}
// @Router /pets [get]
func (h *PetHandler) List(c *gin.Context) {
	profiles, err := h.service.List(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, profiles)
}

// Create 新建档案并设为当前档案
// @Summary 新建档案
// @Tags Pet
// @Security BearerAuth
// @Param input body ProfileRequest true "Profile"
// @Success 200 {object} response.Response{data=model.PetProfile}
// @Router /pets [post]
func (h *PetHandler) Create(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	p, err := h.service.Create(c.Request.Context(), middleware.CurrentSession(c), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, p)
}

// Update 修改档案
// @Summary 修改档案
// @Tags Pet
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Param input body ProfileRequest true "Profile"
// @Success 200 {object} response.Response{data=model.PetProfile}
// @Router /pets/{id} [put]
func (h *PetHandler) Update(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	p, err := h.service.Update(c.Request.Context(), middleware.CurrentSession(c), c.Param("id"), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, p)
}

// Delete 删除档案
// @Summary 删除档案
// @Tags Pet
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} response.Response
// @Router /pets/{id} [delete]
func (h *PetHandler) Delete(c *gin.Context) {
	sess, err := h.service.Delete(c.Request.Context(), middleware.CurrentSession(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"selectedProfileId": sess.SelectedProfileID})
}

// Select 切换当前档案
// @Summary 选择档案
// @Tags Pet
// @Security BearerAuth
// @Param id path string true "Profile ID"
// @Success 200 {object} response.Response
// @Router /pets/{id}/select [post]
func (h *PetHandler) Select(c *gin.Context) {
	sess, err := h.service.Select(c.Request.Context(), middleware.CurrentSession(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"selectedProfileId": sess.SelectedProfileID})
}

func (h *PetHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.Error(c, http.StatusNotFound, response.ErrProfileNotFound, "Pet profile not found")
	case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrInvalidSpecies):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	case errors.Is(err, service.ErrUnsafeImage):
		response.Error(c, http.StatusBadRequest, response.ErrUnsafeImage, "Invalid image.")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}
