package security

import (
	"regexp"
	"strings"
)

// DefaultPromptLength 写入 AI 提示词的自由文本默认截断长度
const DefaultPromptLength = 50

var (
	// htmlTagPattern 匹配 HTML 标签（包括未闭合的尾部标签）
	htmlTagPattern = regexp.MustCompile(`<[^>]*>?`)
	// disallowedPattern 只保留字母数字、空白与标点
	disallowedPattern = regexp.MustCompile(`[^\w\s\p{P}]`)
)

// safeImageMIMETypes 允许渲染的 data URI 图片类型
var safeImageMIMETypes = []string{"image/png", "image/jpeg", "image/webp", "image/gif"}

// SanitizeText 去掉 HTML 标签以及标点之外的符号，并去除首尾空白
func SanitizeText(text string) string {
	if text == "" {
		return ""
	}
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = disallowedPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// SanitizeForPrompt 清洗并截断用于 AI 提示词的文本
// maxLength <= 0 时使用 DefaultPromptLength
func SanitizeForPrompt(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultPromptLength
	}
	runes := []rune(SanitizeText(text))
	if len(runes) > maxLength {
		runes = runes[:maxLength]
	}
	return string(runes)
}

// IsSafeImageURL 校验图片地址是否可以安全渲染
// 空地址视为安全；允许 http(s) 与常见图片类型的 base64 data URI
func IsSafeImageURL(url string) bool {
	if url == "" {
		return true
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return true
	}
	if strings.HasPrefix(url, "data:image/") {
		for _, mime := range safeImageMIMETypes {
			if strings.HasPrefix(url, "data:"+mime+";base64,") {
				return true
			}
		}
	}
	return false
}
