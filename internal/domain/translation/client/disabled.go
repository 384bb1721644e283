package client

import (
	"context"
	"pawsay/internal/domain/translation/service"
)

// Disabled 未配置 API key 时使用，所有请求直接失败
type Disabled struct{}

func (Disabled) Classify(context.Context, service.ClassifyRequest) (string, error) {
	return "", ErrNoAPIKey
}

func (Disabled) GenerateImage(context.Context, string) ([]byte, string, error) {
	return nil, "", ErrNoAPIKey
}
