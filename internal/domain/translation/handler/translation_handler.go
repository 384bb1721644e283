package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	petModel "pawsay/internal/domain/pet/model"
	petService "pawsay/internal/domain/pet/service"
	sessionModel "pawsay/internal/domain/session/model"
	"pawsay/internal/domain/translation/service"
	"pawsay/internal/pkg/capture"
	"pawsay/internal/pkg/config"
	"pawsay/internal/pkg/inflight"
	"pawsay/internal/pkg/middleware"
	"pawsay/pkg/metrics"
	"pawsay/pkg/response"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	NoticeTooShort   = "Too short! Hold for at least 2 seconds."
	NoticeTooLong    = "Recording is longer than 8 seconds."
	NoticeBusy       = "A translation is already in progress."
	NoticeFailed     = "AI couldn't hear that clearly. Try again?"
	noticeNoSoundFmt = "No %s sound detected. Please try again!"
)

// ConsentChecker 查询设备是否已同意条款
type ConsentChecker interface {
	HasConsent(ctx context.Context, sess *sessionModel.Session) (bool, error)
}

// Options 录音窗口与并发控制
type Options struct {
	Recording config.RecordingConfig
	// BusyTTL 单个会话翻译锁的最长持有时间
	BusyTTL time.Duration
}

type TranslationHandler struct {
	service service.TranslationService
	pets    petService.PetService
	consent ConsentChecker
	gate    inflight.Gate
	metrics *metrics.Collector
	opts    Options
}

func NewTranslationHandler(svc service.TranslationService, pets petService.PetService, consent ConsentChecker, gate inflight.Gate, collector *metrics.Collector, opts Options) *TranslationHandler {
	if opts.BusyTTL <= 0 {
		opts.BusyTTL = time.Minute
	}
	return &TranslationHandler{service: svc, pets: pets, consent: consent, gate: gate, metrics: collector, opts: opts}
}

// Translate 翻译一段宠物录音
// @Summary 宠物声音翻译
// @Tags Translation
// @Security BearerAuth
// @Accept multipart/form-data
// @Param audio formData file true "录音文件"
// @Param durationMs formData int true "按住时长（毫秒）"
// @Param profileId formData string false "宠物档案 ID，缺省使用当前选中档案"
// @Param species formData string false "cat | dog"
// @Success 200 {object} response.Response{data=model.Judgment}
// @Failure 422 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /translate [post]
func (h *TranslationHandler) Translate(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	sess := middleware.CurrentSession(c)

	ok, err := h.consent.HasConsent(ctx, sess)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
		return
	}
	if !ok {
		response.Error(c, http.StatusForbidden, response.ErrConsentRequired, "Please accept the terms of use first.")
		return
	}

	if h.opts.Recording.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.Recording.MaxUploadBytes)
	}
	var req struct {
		DurationMs int64  `form:"durationMs" binding:"required"`
		ProfileID  string `form:"profileId"`
		Species    string `form:"species"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	duration := time.Duration(req.DurationMs) * time.Millisecond
	if duration < h.opts.Recording.MinDuration {
		h.metrics.Translation("too_short", time.Since(start))
		response.Error(c, http.StatusUnprocessableEntity, response.ErrRecordingTooShort, NoticeTooShort)
		return
	}
	if duration > h.opts.Recording.MaxDuration+h.opts.Recording.Tolerance {
		response.Error(c, http.StatusUnprocessableEntity, response.ErrRecordingTooLong, NoticeTooLong)
		return
	}

	species, valid := petModel.ParseSpecies(req.Species)
	if !valid {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "species must be cat or dog")
		return
	}
	profile, err := h.profile(ctx, sess, req.ProfileID)
	if errors.Is(err, petService.ErrProfileNotFound) {
		response.Error(c, http.StatusNotFound, response.ErrProfileNotFound, "Profile not found")
		return
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
		return
	}
	if profile != nil {
		species = profile.Species
	}

	clip, err := readClip(c, duration)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	// 同一会话同时只允许一个翻译请求
	token, acquired, err := h.gate.Acquire(ctx, sess.ID, h.opts.BusyTTL)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
		return
	}
	if !acquired {
		response.Error(c, http.StatusConflict, response.ErrTranslateBusy, NoticeBusy)
		return
	}
	defer func() {
		_ = h.gate.Release(context.WithoutCancel(ctx), sess.ID, token)
	}()

	judgment, err := h.service.Translate(ctx, clip, species, profile)
	if err != nil {
		_ = c.Error(err)
		h.metrics.Translation("failed", time.Since(start))
		response.Error(c, http.StatusBadGateway, response.ErrTranslateFailed, NoticeFailed)
		return
	}
	if !judgment.SoundDetected {
		h.metrics.Translation("no_sound", time.Since(start))
		response.Notice(c, judgment, fmt.Sprintf(noticeNoSoundFmt, species))
		return
	}
	h.metrics.Translation("judged", time.Since(start))
	response.Success(c, judgment)
}

func (h *TranslationHandler) profile(ctx context.Context, sess *sessionModel.Session, id string) (*petModel.PetProfile, error) {
	if id == "" {
		return h.pets.Selected(ctx, sess)
	}
	return h.pets.Get(ctx, sess, id)
}

func readClip(c *gin.Context, duration time.Duration) (capture.Clip, error) {
	fh, err := c.FormFile("audio")
	if err != nil {
		return capture.Clip{}, errors.New("audio file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return capture.Clip{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return capture.Clip{}, err
	}
	if len(data) == 0 {
		return capture.Clip{}, errors.New("audio file is empty")
	}
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = "audio/webm"
	}
	return capture.Clip{Data: data, MIMEType: mimeType, Duration: duration}, nil
}
