package models

type Classroom struct {
	ID       string `gorm:"size:16;primary_key" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Capacity int    `gorm:"not null" json:"capacity"`
	Color    string `gorm:"size:16;not null" json:"color"`
}
