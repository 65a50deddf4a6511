package models

import (
	"time"
)

// postPreviewLength is how many characters of the text a post is identified by
const postPreviewLength = 15

// Post is a user-authored text entry, optionally grouped and illustrated
type Post struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`
	AuthorID uint      `json:"author_id" gorm:"not null;index"`
	Author   User      `json:"author" gorm:"constraint:OnDelete:CASCADE"`
	GroupID  *uint     `json:"group_id,omitempty" gorm:"index"`
	Group    *Group    `json:"group,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	Image    string    `json:"image,omitempty" gorm:"size:255"` // storage name, e.g. posts/cat_1a2b3c4d.gif
}

func (p Post) String() string {
	runes := []rune(p.Text)
	if len(runes) > postPreviewLength {
		runes = runes[:postPreviewLength]
	}
	return string(runes)
}

// PostForm is the create/edit form. The image travels as a multipart file next to it.
type PostForm struct {
	Text  string `form:"text" validate:"required"`
	Group string `form:"group" validate:"omitempty,numeric"`
}
