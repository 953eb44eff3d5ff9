package service

import (
	"context"
	"math"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

type StatsRepository interface {
	Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error)
	StudentOverview(ctx context.Context, userID string) (*domain.StudentOverview, error)
	InstructorOverview(ctx context.Context, ownerID string) (*domain.InstructorOverview, error)
	CourseAnalytics(ctx context.Context, courseID string) (*domain.CourseAnalytics, error)
}

// DashboardService serves aggregate views over a user's activity.
type DashboardService struct {
	statsRepo  StatsRepository
	courseRepo CourseRepository
}

func NewDashboardService(statsRepo StatsRepository, courseRepo CourseRepository) *DashboardService {
	return &DashboardService{
		statsRepo:  statsRepo,
		courseRepo: courseRepo,
	}
}

func (s *DashboardService) StudentDashboard(ctx context.Context, userID string) (*domain.StudentOverview, error) {
	overview, err := s.statsRepo.StudentOverview(ctx, userID)
	if err != nil {
		return nil, err
	}
	overview.AverageScore = roundScore(overview.AverageScore)
	return overview, nil
}

func (s *DashboardService) InstructorDashboard(ctx context.Context, userID string) (*domain.InstructorOverview, error) {
	return s.statsRepo.InstructorOverview(ctx, userID)
}

// CourseAnalytics reports engagement with a course. Only the owner may
// see it.
func (s *DashboardService) CourseAnalytics(ctx context.Context, userID, courseID string) (*domain.CourseAnalytics, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.OwnerID != userID {
		return nil, domain.ErrNotCourseOwner
	}

	analytics, err := s.statsRepo.CourseAnalytics(ctx, courseID)
	if err != nil {
		return nil, err
	}
	analytics.AverageProgress = roundScore(analytics.AverageProgress)
	analytics.AverageScore = roundScore(analytics.AverageScore)
	return analytics, nil
}

// Leaderboard returns the top students by average quiz score. limit is
// clamped to [1, 100]; zero or negative means the default of 10.
func (s *DashboardService) Leaderboard(ctx context.Context, limit int) ([]*domain.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	entries, err := s.statsRepo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		e.Score = roundScore(e.Score)
	}
	return entries, nil
}

// roundScore rounds a percentage to one decimal place.
func roundScore(x float64) float64 {
	return math.Round(x*10) / 10
}
