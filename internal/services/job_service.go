package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/logger"
	"github.com/billpap123/artepovera-backend-sub000/internal/models"
	"github.com/billpap123/artepovera-backend-sub000/internal/repositories"
	"github.com/billpap123/artepovera-backend-sub000/internal/services/dto"
	"github.com/billpap123/artepovera-backend-sub000/pkg/apperrors"
)

type JobService interface {
	CreateJob(ctx context.Context, db *gorm.DB, employerID uint, req *dto.CreateJobRequest) (*dto.JobResponse, error)
	GetJob(ctx context.Context, db *gorm.DB, jobID uint) (*dto.JobResponse, error)
	SearchJobs(ctx context.Context, db *gorm.DB, req *dto.JobSearchRequest) (*dto.JobListResponse, error)
	// DeleteJob is allowed for the owning employer and admins.
	DeleteJob(ctx context.Context, db *gorm.DB, userID uint, isAdmin bool, jobID uint) error

	Apply(ctx context.Context, db *gorm.DB, artistID, jobID uint) (*dto.ApplicationResponse, error)
	GetApplications(ctx context.Context, db *gorm.DB, employerID, jobID uint) ([]*dto.ApplicationResponse, error)
}

type JobServiceImpl struct {
	jobRepo       repositories.JobRepository
	userRepo      repositories.UserRepository
	notifications NotificationService
}

func NewJobService(
	jobRepo repositories.JobRepository,
	userRepo repositories.UserRepository,
	notifications NotificationService,
) JobService {
	return &JobServiceImpl{
		jobRepo:       jobRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

func (s *JobServiceImpl) CreateJob(ctx context.Context, db *gorm.DB, employerID uint, req *dto.CreateJobRequest) (*dto.JobResponse, error) {
	job := &models.JobPosting{
		EmployerID:  employerID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    strings.TrimSpace(req.Category),
		Location:    strings.TrimSpace(req.Location),
		Budget:      req.Budget,
	}
	if err := s.jobRepo.CreateJob(db, job); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "job posted", "job_id", job.ID)
	return dto.NewJobResponse(job), nil
}

func (s *JobServiceImpl) GetJob(ctx context.Context, db *gorm.DB, jobID uint) (*dto.JobResponse, error) {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}
	return dto.NewJobResponse(job), nil
}

func (s *JobServiceImpl) SearchJobs(ctx context.Context, db *gorm.DB, req *dto.JobSearchRequest) (*dto.JobListResponse, error) {
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	jobs, total, err := s.jobRepo.FindJobs(db, repositories.JobCriteria{
		Category: strings.TrimSpace(req.Category),
		Location: strings.TrimSpace(req.Location),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.JobListResponse{
		Jobs:     make([]*dto.JobResponse, 0, len(jobs)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range jobs {
		resp.Jobs = append(resp.Jobs, dto.NewJobResponse(&jobs[i]))
	}
	return resp, nil
}

func (s *JobServiceImpl) DeleteJob(ctx context.Context, db *gorm.DB, userID uint, isAdmin bool, jobID uint) error {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return err
	}
	if job.EmployerID != userID && !isAdmin {
		return apperrors.ErrInsufficientPermissions
	}
	if err := s.jobRepo.DeleteJob(db, jobID); err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return apperrors.ErrNotFound(err, "job", "Job posting not found")
		}
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "job deleted", "job_id", jobID, "by_admin", isAdmin && job.EmployerID != userID)
	return nil
}

// Apply records the application and notifies the employer.
func (s *JobServiceImpl) Apply(ctx context.Context, db *gorm.DB, artistID, jobID uint) (*dto.ApplicationResponse, error) {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}
	artist, err := s.userRepo.FindByID(db, artistID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err, "user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	app := &models.JobApplication{JobID: job.ID, ArtistID: artistID}
	if err := s.jobRepo.CreateApplication(db, app); err != nil {
		if errors.Is(err, repositories.ErrApplicationDuplicate) {
			return nil, apperrors.ErrAlreadyApplied
		}
		return nil, apperrors.InternalError(err)
	}

	_, err = s.notifications.Notify(ctx, db, NotifyInput{
		RecipientID: job.EmployerID,
		SenderID:    artistID,
		SenderName:  artist.DisplayName(),
		MessageKey:  models.NotificationKeyNewApplication,
		Params: map[string]interface{}{
			"artistName": artist.DisplayName(),
			"jobTitle":   job.Title,
			"jobId":      job.ID,
		},
		DedupeKey: fmt.Sprintf("application:%d", app.ID),
	})
	if err != nil {
		logger.CtxWithError(ctx, "application notification failed", err, "job_id", job.ID)
	}

	return &dto.ApplicationResponse{
		ID:         app.ID,
		JobID:      app.JobID,
		ArtistID:   app.ArtistID,
		ArtistName: artist.DisplayName(),
		CreatedAt:  app.CreatedAt,
	}, nil
}

func (s *JobServiceImpl) GetApplications(ctx context.Context, db *gorm.DB, employerID, jobID uint) ([]*dto.ApplicationResponse, error) {
	job, err := s.findJob(db, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employerID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	apps, err := s.jobRepo.FindApplicationsByJob(db, jobID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]*dto.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		resp := &dto.ApplicationResponse{
			ID:        a.ID,
			JobID:     a.JobID,
			ArtistID:  a.ArtistID,
			CreatedAt: a.CreatedAt,
		}
		if a.Artist != nil {
			resp.ArtistName = a.Artist.DisplayName()
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *JobServiceImpl) findJob(db *gorm.DB, jobID uint) (*models.JobPosting, error) {
	job, err := s.jobRepo.FindJobByID(db, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrNotFound(err, "job", "Job posting not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return job, nil
}
