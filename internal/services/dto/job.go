package dto

import (
	"time"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

type CreateJobRequest struct {
	Title       string   `json:"title" validate:"required,notblank,max=255"`
	Description string   `json:"description" validate:"required,notblank,max=10000"`
	Category    string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Location    string   `json:"location,omitempty" validate:"omitempty,max=255"`
	Budget      *float64 `json:"budget,omitempty" validate:"omitempty,min=0"`
}

type JobSearchRequest struct {
	Category string `form:"category" validate:"omitempty,max=100"`
	Location string `form:"location" validate:"omitempty,max=255"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type JobResponse struct {
	ID           uint      `json:"job_id"`
	EmployerID   uint      `json:"employer_id"`
	EmployerName string    `json:"employer_name,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category,omitempty"`
	Location     string    `json:"location,omitempty"`
	Budget       *float64  `json:"budget,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type JobListResponse struct {
	Jobs     []*JobResponse `json:"jobs"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type ApplicationResponse struct {
	ID         uint      `json:"application_id"`
	JobID      uint      `json:"job_id"`
	ArtistID   uint      `json:"artist_id"`
	ArtistName string    `json:"artist_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewJobResponse(j *models.JobPosting) *JobResponse {
	resp := &JobResponse{
		ID:          j.ID,
		EmployerID:  j.EmployerID,
		Title:       j.Title,
		Description: j.Description,
		Category:    j.Category,
		Location:    j.Location,
		Budget:      j.Budget,
		CreatedAt:   j.CreatedAt,
	}
	if j.Employer != nil {
		resp.EmployerName = j.Employer.DisplayName()
	}
	return resp
}
