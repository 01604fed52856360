package models

type Category struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
}

type Venue struct {
	Base
	Name     string `gorm:"not null" json:"name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
	Phone    string `json:"phone"`
}

type Sponsor struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`
	Website      string `json:"website"`
	Sector       string `json:"sector"`
	Description  string `json:"description"`
}
