package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	petModel "pawsay/internal/domain/pet/model"
	"pawsay/internal/domain/translation/model"
	"pawsay/internal/pkg/capture"
	"pawsay/internal/pkg/uploader"
	"time"

	"go.uber.org/zap"
)

var (
	ErrEmptyClip = errors.New("audio clip is empty")
	// ErrMalformedJudgment 模型返回内容不符合约定的 JSON 结构
	ErrMalformedJudgment = errors.New("malformed judgment")
)

// ClassifyRequest 一次音频分类请求
type ClassifyRequest struct {
	Audio             []byte
	MIMEType          string
	SystemInstruction string
	Prompt            string
}

// Generator 生成式 AI 后端
type Generator interface {
	// Classify 返回模型输出的 JSON 文本
	Classify(ctx context.Context, req ClassifyRequest) (string, error)
	// GenerateImage 返回图片字节与 MIME 类型
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// TranslationService 宠物声音翻译
type TranslationService interface {
	Translate(ctx context.Context, clip capture.Clip, species petModel.Species, profile *petModel.PetProfile) (*model.Judgment, error)
}

type translationService struct {
	generator Generator
	images    uploader.ImageStore
	timeout   time.Duration
	log       *zap.Logger
}

func NewTranslationService(generator Generator, images uploader.ImageStore, timeout time.Duration, log *zap.Logger) TranslationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &translationService{generator: generator, images: images, timeout: timeout, log: log}
}

func (s *translationService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *translationService) Translate(ctx context.Context, clip capture.Clip, species petModel.Species, profile *petModel.PetProfile) (*model.Judgment, error) {
	if clip.Empty() {
		return nil, ErrEmptyClip
	}
	if profile != nil && profile.Species.Valid() {
		species = profile.Species
	}
	if !species.Valid() {
		species = petModel.SpeciesCat
	}

	classifyCtx, cancel := s.withTimeout(ctx)
	raw, err := s.generator.Classify(classifyCtx, ClassifyRequest{
		Audio:             clip.Data,
		MIMEType:          clip.MIMEType,
		SystemInstruction: SystemInstruction(species, profile),
		Prompt:            UserPrompt(species),
	})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("classify audio: %w", err)
	}

	judgment, err := ParseJudgment(raw)
	if err != nil {
		return nil, err
	}
	if !judgment.Illustratable() {
		return judgment, nil
	}

	// 配图失败不影响翻译结果
	if url, err := s.illustrate(ctx, species, judgment.Emotion, profile); err != nil {
		s.log.Warn("image generation failed", zap.String("species", string(species)), zap.Error(err))
	} else {
		judgment.ImageURL = url
	}
	return judgment, nil
}

func (s *translationService) illustrate(ctx context.Context, species petModel.Species, emotion string, profile *petModel.PetProfile) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	data, mimeType, err := s.generator.GenerateImage(ctx, ImagePrompt(species, emotion, profile))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("no image returned")
	}
	return s.images.SaveImage(ctx, data, mimeType)
}

// rawJudgment 用指针区分字段缺失与零值
type rawJudgment struct {
	DetectedSoundType *string `json:"detectedSoundType"`
	SoundDetected     *bool   `json:"soundDetected"`
	Emotion           *string `json:"emotion"`
	Explanation       *string `json:"explanation"`
	Advice            *string `json:"advice"`
}

// ParseJudgment 严格解析模型输出
func ParseJudgment(raw string) (*model.Judgment, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	var r rawJudgment
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJudgment, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedJudgment)
	}
	if r.SoundDetected == nil {
		return nil, fmt.Errorf("%w: missing soundDetected", ErrMalformedJudgment)
	}
	if r.DetectedSoundType == nil {
		return nil, fmt.Errorf("%w: missing detectedSoundType", ErrMalformedJudgment)
	}
	soundType := model.SoundType(*r.DetectedSoundType)
	if !soundType.Valid() {
		return nil, fmt.Errorf("%w: unknown sound type %q", ErrMalformedJudgment, soundType)
	}

	j := &model.Judgment{SoundDetected: *r.SoundDetected, DetectedSoundType: soundType}
	if r.Emotion != nil {
		j.Emotion = *r.Emotion
	}
	if r.Explanation != nil {
		j.Explanation = *r.Explanation
	}
	if r.Advice != nil {
		j.Advice = *r.Advice
	}
	return j, nil
}
