package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/access"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/dto"
	"github.com/SNbappy/edugrid-smart-learning-platform-server/internal/repository"
)

// AnalyticsService produces read-only grading overviews of a
// classroom. Results are cached with a TTL; staleness up to the TTL is
// acceptable since the scan has no transactional requirements.
type AnalyticsService interface {
	ClassroomOverview(ctx context.Context, classroomID, requesterEmail string) (dto.ClassroomAnalytics, error)
}

type analyticsService struct {
	classrooms repository.ClassroomRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService. A nil cache
// client disables caching.
func NewAnalyticsService(classrooms repository.ClassroomRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		classrooms: classrooms,
		cache:      cache,
		cacheTTL:   ttl,
		logger:     logger.With().Str("component", "analytics_service").Logger(),
		now:        time.Now,
	}
}

func (s *analyticsService) ClassroomOverview(ctx context.Context, classroomID, requesterEmail string) (dto.ClassroomAnalytics, error) {
	if requesterEmail == "" {
		return dto.ClassroomAnalytics{}, ErrIdentityRequired
	}
	if err := validateClassroomID(classroomID); err != nil {
		return dto.ClassroomAnalytics{}, err
	}

	cacheKey := fmt.Sprintf("analytics:classroom:%s", classroomID)

	classroom, err := s.classrooms.GetByID(ctx, classroomID)
	if err != nil {
		return dto.ClassroomAnalytics{}, translateClassroomError(err)
	}

	if !access.IsInstructor(requesterEmail, classroom) {
		return dto.ClassroomAnalytics{}, fmt.Errorf("%w: only instructors can view classroom analytics", ErrAccessDenied)
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var overview dto.ClassroomAnalytics
			if unmarshalErr := json.Unmarshal([]byte(cached), &overview); unmarshalErr == nil {
				s.logger.Debug().Str("classroom_id", classroomID).Msg("analytics cache hit")
				return overview, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
		}
	}

	now := s.now()
	overview := dto.ClassroomAnalytics{
		ClassroomID: classroomID,
		TaskCount:   len(classroom.Tasks),
		Tasks:       make([]dto.TaskAnalytics, 0, len(classroom.Tasks)),
		GeneratedAt: now,
	}

	scoreTotal := 0.0
	for _, task := range classroom.Tasks {
		task.RecalculateStats()
		overview.TotalSubmissions += task.Stats.TotalSubmissions
		overview.GradedSubmissions += task.Stats.GradedSubmissions
		scoreTotal += task.Stats.AverageScore * float64(task.Stats.GradedSubmissions)
		overview.Tasks = append(overview.Tasks, dto.TaskAnalytics{
			TaskID:    task.ID,
			Title:     task.Title,
			DueDate:   task.DueDate,
			IsOverdue: task.IsPastDue(now),
			Stats:     task.Stats,
		})
	}
	if overview.GradedSubmissions > 0 {
		overview.AverageScore = math.Round(scoreTotal/float64(overview.GradedSubmissions)*100) / 100
	}

	if s.cache != nil {
		if payload, err := json.Marshal(overview); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analytics cache")
			}
		}
	}

	return overview, nil
}
