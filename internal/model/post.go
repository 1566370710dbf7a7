package model

import "time"

// Post 内容主体；ImageKey 指向 blob 存储中的附件，可为空
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string    `json:"author_id" gorm:"type:varchar(36);index:idx_post_author;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	ImageKey  string    `json:"-" gorm:"type:varchar(128)"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_post_created"`
}

func (Post) TableName() string { return "posts" }
