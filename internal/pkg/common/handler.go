package handler

import (
	"context"
	"errors"
	"net/http"
	"pawsay/internal/pkg/uploader"
	"pawsay/pkg/kvstore"
	"pawsay/pkg/response"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentUploads 同一请求内并发上传数
const maxConcurrentUploads = 5

// CommonHandler 上传与健康检查
type CommonHandler struct {
	uploader uploader.Uploader
	store    kvstore.Store
}

func NewCommonHandler(u uploader.Uploader, store kvstore.Store) *CommonHandler {
	return &CommonHandler{uploader: u, store: store}
}

// UploadFile 上传图片 (支持批量)，用于头像、宠物照片与帖子配图
// @Summary 上传图片 (支持批量)
// @Tags Common
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files"
// @Success 200 {object} response.Response{data=[]string} "URLs"
// @Router /upload [post]
func (h *CommonHandler) UploadFile(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Invalid form data")
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "No files uploaded")
		return
	}

	// 按索引写入，保证返回顺序与上传顺序一致
	urls := make([]string, len(files))
	var g errgroup.Group
	g.SetLimit(maxConcurrentUploads)
	for i, file := range files {
		g.Go(func() error {
			url, err := h.uploader.UploadFile(file)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, uploader.ErrNotImage) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "Only image uploads are allowed")
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Upload failed")
		return
	}

	response.Success(c, urls)
}

// Health 存活与存储连通性检查
// @Summary 健康检查
// @Tags Common
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /healthz [get]
func (h *CommonHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.store.Get(ctx, kvstore.KeyConsent); err != nil && !errors.Is(err, kvstore.ErrNotFound) {
		response.Error(c, http.StatusServiceUnavailable, response.ErrServerInternal, "store unavailable")
		return
	}
	response.Success(c, gin.H{"status": "ok"})
}
