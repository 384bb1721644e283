package uploader

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"pawsay/internal/pkg/config"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// ErrNotImage 上传的文件不是图片
var ErrNotImage = fmt.Errorf("only image uploads are allowed")

// Uploader 处理用户上传的图片 (头像、帖子配图)
type Uploader interface {
	UploadFile(file *multipart.FileHeader) (string, error)
}

// ImageStore 保存生成的图片字节并返回可访问的 URL
type ImageStore interface {
	SaveImage(ctx context.Context, data []byte, mimeType string) (string, error)
}

type AliyunOSSUploader struct {
	client *oss.Client
	bucket *oss.Bucket
	config config.OSSConfig
}

func NewAliyunOSSUploader(cfg config.OSSConfig) (*AliyunOSSUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return &AliyunOSSUploader{
		client: client,
		bucket: bucket,
		config: cfg,
	}, nil
}

func (u *AliyunOSSUploader) UploadFile(file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if !isImage(contentType) {
		return "", ErrNotImage
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return u.put(objectName(filepath.Ext(file.Filename)), src, contentType)
}

func (u *AliyunOSSUploader) SaveImage(_ context.Context, data []byte, mimeType string) (string, error) {
	return u.put(objectName(extensionFor(mimeType)), bytes.NewReader(data), mimeType)
}

func (u *AliyunOSSUploader) put(name string, r io.Reader, contentType string) (string, error) {
	if err := u.bucket.PutObject(name, r, oss.ContentType(contentType)); err != nil {
		return "", err
	}
	// bucket 需为 public-read 或挂 CDN
	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, name), nil
}

// DataURIStore 不落盘，直接返回 base64 data URI
type DataURIStore struct {
	MaxBytes int64
}

func (s DataURIStore) UploadFile(file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	if !isImage(contentType) {
		return "", ErrNotImage
	}
	if s.MaxBytes > 0 && file.Size > s.MaxBytes {
		return "", fmt.Errorf("image exceeds %d bytes", s.MaxBytes)
	}
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	return DataURI(data, contentType), nil
}

func (s DataURIStore) SaveImage(_ context.Context, data []byte, mimeType string) (string, error) {
	return DataURI(data, mimeType), nil
}

// DataURI 编码为 data:<mime>;base64,<payload>
func DataURI(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = "image/png"
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Store 同时具备两种能力
type Store interface {
	Uploader
	ImageStore
}

// New 配置了 OSS 时使用 OSS，否则使用 data URI
func New(cfg config.OSSConfig, maxBytes int64) (Store, error) {
	if !cfg.Enabled() {
		return DataURIStore{MaxBytes: maxBytes}, nil
	}
	return NewAliyunOSSUploader(cfg)
}

func objectName(ext string) string {
	return fmt.Sprintf("%s/%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
}

func isImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
