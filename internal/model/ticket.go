package model

// TicketStatus 工单状态，只允许 open -> resolved。
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketResolved TicketStatus = "resolved"
)

// Ticket 社区求助工单。
type Ticket struct {
	ID            string       `json:"id" gorm:"primaryKey;size:64;comment:工单ID"`
	Question      string       `json:"question" gorm:"type:text;not null;comment:问题"`
	Status        TicketStatus `json:"status" gorm:"size:16;index:idx_ticket_status;comment:状态"`
	RaisedByEmail string       `json:"raised_by_email" gorm:"size:255;comment:提问人邮箱"`
	Answers       []Answer     `json:"answers" gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE"`
	Timestamp     int64        `json:"timestamp" gorm:"index:idx_ticket_timestamp;comment:创建时间(毫秒)"`
}

// TableName returns the table name for GORM.
func (t *Ticket) TableName() string {
	return "tickets"
}

// Answer 工单回答，按追加顺序保存。
type Answer struct {
	ID          uint64 `json:"-" gorm:"primaryKey;autoIncrement"`
	TicketID    string `json:"-" gorm:"size:64;index:idx_answer_ticket;not null"`
	AuthorEmail string `json:"author_email" gorm:"size:255;comment:回答人邮箱"`
	Content     string `json:"content" gorm:"type:text;not null;comment:回答内容"`
	Timestamp   int64  `json:"timestamp" gorm:"comment:回答时间(毫秒)"`
}

// TableName returns the table name for GORM.
func (a *Answer) TableName() string {
	return "ticket_answers"
}
