package model

import (
	baseModel "pawsay/pkg/model"
	"time"
)

// ReportThreshold 举报数超过该值的帖子自动隐藏
const ReportThreshold = 3

// DefaultReportReason 未填写理由时使用
const DefaultReportReason = "User reported content as violating terms."

// Author 发帖/评论人信息，写入时冗余保存
type Author struct {
	AuthorID     string `json:"authorId"`
	AuthorName   string `json:"authorName"`
	AuthorAvatar string `json:"authorAvatar,omitempty"`
}

// Post 社区帖子
type Post struct {
	baseModel.BaseModel
	Author
	Text     string    `json:"text"`
	ImageURL string    `json:"imageUrl,omitempty"`
	Likes    []string  `json:"likes"`   // 点赞的账号 ID
	Reports  []string  `json:"reports"` // 举报的账号 ID
	Comments []Comment `json:"comments"`
}

// Comment 评论，只追加不修改
type Comment struct {
	baseModel.BaseModel
	Author
	Text string `json:"text"`
}

// Hidden 举报数超过阈值
func (p *Post) Hidden() bool {
	return len(p.Reports) > ReportThreshold
}

func (p *Post) LikedBy(accountID string) bool {
	return contains(p.Likes, accountID)
}

func (p *Post) ReportedBy(accountID string) bool {
	return contains(p.Reports, accountID)
}

// Report 管理后台的举报记录
type Report struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	ReporterID string    `json:"reporterId"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"timestamp"`
}

// PostView 以浏览者视角展示的帖子
type PostView struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName"`
	AuthorAvatar string    `json:"authorAvatar,omitempty"`
	Text         string    `json:"text"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	CreatedAt    int64     `json:"timestamp"`
	LikeCount    int       `json:"likeCount"`
	ReportCount  int       `json:"reportCount"`
	LikedByMe    bool      `json:"likedByMe"`
	ReportedByMe bool      `json:"reportedByMe"`
	Comments     []Comment `json:"comments"`
}

// ViewFor 生成浏览者视图
func (p *Post) ViewFor(viewerID string) PostView {
	comments := p.Comments
	if comments == nil {
		comments = []Comment{}
	}
	return PostView{
		ID:           p.ID,
		AuthorID:     p.AuthorID,
		AuthorName:   p.AuthorName,
		AuthorAvatar: p.AuthorAvatar,
		Text:         p.Text,
		ImageURL:     p.ImageURL,
		CreatedAt:    p.CreatedAt.UnixMilli(),
		LikeCount:    len(p.Likes),
		ReportCount:  len(p.Reports),
		LikedByMe:    p.LikedBy(viewerID),
		ReportedByMe: p.ReportedBy(viewerID),
		Comments:     comments,
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
