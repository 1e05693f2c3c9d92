package entities

import "time"

// Book is a single catalog record. The ID is assigned by the client when the
// book is created and is never reassigned.
type Book struct {
	ID     string `gorm:"primaryKey;size:64" json:"id"`
	Title  string `gorm:"size:512" json:"title"`
	Author string `gorm:"size:256" json:"author"`

	CreatedAt time.Time `gorm:"index" json:"-"`
	UpdatedAt time.Time `json:"-"`
}
