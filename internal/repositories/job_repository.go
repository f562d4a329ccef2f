package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/billpap123/artepovera-backend-sub000/internal/models"
)

var (
	ErrJobNotFound          = errors.New("job posting not found")
	ErrApplicationDuplicate = errors.New("application already exists")
)

type JobRepository interface {
	CreateJob(db *gorm.DB, job *models.JobPosting) error
	FindJobByID(db *gorm.DB, id uint) (*models.JobPosting, error)
	FindJobs(db *gorm.DB, criteria JobCriteria) ([]models.JobPosting, int64, error)
	DeleteJob(db *gorm.DB, id uint) error

	CreateApplication(db *gorm.DB, app *models.JobApplication) error
	FindApplicationsByJob(db *gorm.DB, jobID uint) ([]models.JobApplication, error)
}

type JobCriteria struct {
	Category string
	Location string
	Limit    int
	Offset   int
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) CreateJob(db *gorm.DB, job *models.JobPosting) error {
	return db.Create(job).Error
}

func (r *JobRepositoryImpl) FindJobByID(db *gorm.DB, id uint) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := db.Preload("Employer").First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindJobs(db *gorm.DB, criteria JobCriteria) ([]models.JobPosting, int64, error) {
	var jobs []models.JobPosting
	var total int64

	query := db.Model(&models.JobPosting{})
	if criteria.Category != "" {
		query = query.Where("category = ?", criteria.Category)
	}
	if criteria.Location != "" {
		query = query.Where("LOWER(location) LIKE LOWER(?)", "%"+criteria.Location+"%")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Employer").
		Order("created_at DESC").Order("id DESC").
		Limit(criteria.Limit).Offset(criteria.Offset).
		Find(&jobs).Error
	return jobs, total, err
}

// DeleteJob removes the posting together with its applications.
func (r *JobRepositoryImpl) DeleteJob(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.JobApplication{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.JobPosting{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrJobNotFound
		}
		return nil
	})
}

func (r *JobRepositoryImpl) CreateApplication(db *gorm.DB, app *models.JobApplication) error {
	if err := db.Create(app).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrApplicationDuplicate
		}
		return err
	}
	return nil
}

func (r *JobRepositoryImpl) FindApplicationsByJob(db *gorm.DB, jobID uint) ([]models.JobApplication, error) {
	var apps []models.JobApplication
	err := db.Preload("Artist").
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}
