package models

type ArtistProfile struct {
	BaseModel
	UserID    uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Specialty string `gorm:"size:255" json:"specialty,omitempty"`
	IsStudent bool   `gorm:"default:false" json:"is_student"`
	Portfolio string `gorm:"size:512" json:"portfolio,omitempty"`
}

type EmployerProfile struct {
	BaseModel
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	CompanyName string `gorm:"size:255" json:"company_name,omitempty"`
	Website     string `gorm:"size:255" json:"website,omitempty"`
}
