package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/models"
)

// UpdateResult mirrors the store's conditional-update outcome. Matched
// zero means the classroom row no longer exists; the caller treats
// that as entity-not-found rather than retrying.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// ClassroomRepository defines data operations on classroom aggregates.
// Tasks and submissions are embedded in the aggregate, so every write
// is a whole-field update on a single row; the conditional UPDATE is
// the only concurrency primitive and last write wins.
type ClassroomRepository interface {
	GetByID(ctx context.Context, id string) (models.Classroom, error)
	Create(ctx context.Context, classroom *models.Classroom) error
	ReplaceTasks(ctx context.Context, classroomID string, tasks []models.Task) (UpdateResult, error)
}

type classroomRepository struct {
	db *gorm.DB
}

// NewClassroomRepository instantiates the repository.
func NewClassroomRepository(db *gorm.DB) ClassroomRepository {
	return &classroomRepository{db: db}
}

func (r *classroomRepository) GetByID(ctx context.Context, id string) (models.Classroom, error) {
	var classroom models.Classroom
	if err := r.db.WithContext(ctx).First(&classroom, "id = ?", id).Error; err != nil {
		return models.Classroom{}, err
	}

	return classroom, nil
}

func (r *classroomRepository) Create(ctx context.Context, classroom *models.Classroom) error {
	return r.db.WithContext(ctx).Create(classroom).Error
}

func (r *classroomRepository) ReplaceTasks(ctx context.Context, classroomID string, tasks []models.Task) (UpdateResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Classroom{}).
		Where("id = ?", classroomID).
		Updates(map[string]interface{}{
			"tasks":      datatypes.NewJSONSlice(tasks),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return UpdateResult{}, result.Error
	}

	return UpdateResult{Matched: result.RowsAffected, Modified: result.RowsAffected}, nil
}
