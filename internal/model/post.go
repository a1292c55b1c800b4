package model

// Visibility 内容可见性。
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityInternal Visibility = "internal"
)

// VisibleTo reports whether content with this visibility may be shown to role.
func (v Visibility) VisibleTo(role Role) bool {
	return v == VisibilityPublic || role.IsInstitute()
}

// Post 公告栏帖子，创建后不可修改。
type Post struct {
	ID          string     `json:"id" gorm:"primaryKey;size:64;comment:帖子ID"`
	AuthorEmail string     `json:"author_email" gorm:"size:255;not null;comment:作者邮箱"`
	AuthorName  string     `json:"author_name" gorm:"size:255;comment:作者名称"`
	Content     string     `json:"content" gorm:"type:text;not null;comment:内容"`
	Tags        []string   `json:"tags" gorm:"serializer:json;comment:标签"`
	Visibility  Visibility `json:"visibility" gorm:"size:16;index:idx_post_visibility;comment:可见性"`
	Timestamp   int64      `json:"timestamp" gorm:"index:idx_post_timestamp;comment:创建时间(毫秒)"`
	Likes       int        `json:"likes" gorm:"default:0;comment:点赞数"`
}

// TableName returns the table name for GORM.
func (p *Post) TableName() string {
	return "posts"
}
