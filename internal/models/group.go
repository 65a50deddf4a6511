package models

// Group is a community posts can be published into. Groups are managed by administrators.
type Group struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Slug        string `json:"slug" gorm:"size:100;not null;uniqueIndex"`
	Description string `json:"description" gorm:"type:text"`
}

func (g Group) String() string {
	return "Group: " + g.Title
}

// CreateGroupRequest is used by the admin tooling
type CreateGroupRequest struct {
	Title       string `form:"title" validate:"required,max=200"`
	Slug        string `form:"slug" validate:"required,max=100,slug"`
	Description string `form:"description"`
}
