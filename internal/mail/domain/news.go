package domain

import "time"

// AutoNews stores a message classified as automated (bulk/no-reply).
type AutoNews struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	SenderName  string     `json:"sender_name"`
	SenderEmail string     `json:"sender_email" gorm:"index"`
	Content     string     `json:"content" gorm:"type:text"`
	SentAt      *time.Time `json:"sent_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName specifies the table name for GORM
func (AutoNews) TableName() string {
	return "auto_news"
}

// UserNews stores a human-authored message together with the contact
// attributes extracted from its body.
type UserNews struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	SenderName  string     `json:"sender_name"`
	SenderEmail string     `json:"sender_email" gorm:"index"`
	Content     string     `json:"content" gorm:"type:text"`
	SentAt      *time.Time `json:"sent_at"`
	DisplayName string     `json:"display_name"`
	Company     string     `json:"company"`
	Phone       string     `json:"phone"`
	Website     string     `json:"website"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName specifies the table name for GORM
func (UserNews) TableName() string {
	return "user_news"
}
