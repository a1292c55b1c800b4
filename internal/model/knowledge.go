package model

import "fmt"

// KnowledgeSource 知识条目的来源。
type KnowledgeSource string

const (
	SourcePost             KnowledgeSource = "post"
	SourceTicketResolution KnowledgeSource = "ticket_resolution"
)

// KnowledgeItem 检索用知识条目，只追加不修改。
type KnowledgeItem struct {
	ID         string          `json:"id" gorm:"primaryKey;size:80;comment:条目ID"`
	Content    string          `json:"content" gorm:"type:text;not null;comment:内容"`
	Keywords   []string        `json:"keywords" gorm:"serializer:json;comment:关键词"`
	Source     KnowledgeSource `json:"source" gorm:"size:32;comment:来源"`
	Visibility Visibility      `json:"visibility" gorm:"size:16;index:idx_knowledge_visibility;comment:可见性"`
	// CreatedAt 仅用于关系库中保持追加顺序。
	CreatedAt int64 `json:"-" gorm:"autoCreateTime:nano;index:idx_knowledge_created"`
}

// TableName returns the table name for GORM.
func (k *KnowledgeItem) TableName() string {
	return "knowledge_items"
}

// KnowledgeFromPost derives the knowledge item every post projects into.
func KnowledgeFromPost(p *Post) *KnowledgeItem {
	return &KnowledgeItem{
		ID:         "k_" + p.ID,
		Content:    p.Content,
		Keywords:   append([]string(nil), p.Tags...),
		Source:     SourcePost,
		Visibility: p.Visibility,
	}
}

// KnowledgeFromResolution derives the knowledge item recorded when a ticket is first resolved.
// Resolutions are always internal.
func KnowledgeFromResolution(t *Ticket, answer string) *KnowledgeItem {
	return &KnowledgeItem{
		ID:         "k_ticket_" + t.ID,
		Content:    fmt.Sprintf("Q: %s A: %s", t.Question, answer),
		Keywords:   []string{"Q&A"},
		Source:     SourceTicketResolution,
		Visibility: VisibilityInternal,
	}
}
