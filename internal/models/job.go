package models

type JobPosting struct {
	BaseModel
	EmployerID  uint     `gorm:"not null;index" json:"employer_id"`
	Title       string   `gorm:"size:255;not null" json:"title"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Category    string   `gorm:"size:100;index" json:"category,omitempty"`
	Location    string   `gorm:"size:255;index" json:"location,omitempty"`
	Budget      *float64 `json:"budget,omitempty"`

	Employer *User `gorm:"foreignKey:EmployerID;constraint:OnDelete:CASCADE" json:"employer,omitempty"`
}

type JobApplication struct {
	BaseModel
	JobID    uint `gorm:"not null;uniqueIndex:idx_job_applications_pair" json:"job_id"`
	ArtistID uint `gorm:"not null;uniqueIndex:idx_job_applications_pair;index" json:"artist_id"`

	Job    *JobPosting `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"-"`
	Artist *User       `gorm:"foreignKey:ArtistID;constraint:OnDelete:CASCADE" json:"artist,omitempty"`
}
