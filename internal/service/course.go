package service

import (
	"context"
	"time"

	"github.com/studyhub-ai/studyhub/internal/domain"
	"github.com/studyhub-ai/studyhub/internal/pagination"
)

type CourseRepository interface {
	Create(ctx context.Context, c *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	ListByOwner(ctx context.Context, ownerID string, cursor *pagination.Cursor, limit int) (*pagination.Page[*domain.Course], error)
	Update(ctx context.Context, c *domain.Course) error
	Delete(ctx context.Context, id string) error
	CreateChapter(ctx context.Context, ch *domain.Chapter) error
	GetChapterByID(ctx context.Context, id string) (*domain.Chapter, error)
	ListChapters(ctx context.Context, courseID string) ([]*domain.Chapter, error)
	UpdateChapter(ctx context.Context, ch *domain.Chapter) error
	DeleteChapter(ctx context.Context, id string) error
}

// IndexJobQueue enqueues background indexing work.
type IndexJobQueue interface {
	Create(ctx context.Context, job *domain.IndexJob) error
}

// SourceIndex removes a source's chunks when the source itself goes away.
type SourceIndex interface {
	DeleteSource(ctx context.Context, sourceID string, sourceType domain.SourceType) error
}

// CourseInput carries the caller-editable fields of a course.
type CourseInput struct {
	Title       string
	Description string
	Outline     string
	Level       domain.CourseLevel
	Tags        []string
}

// ChapterInput carries the caller-editable fields of a chapter.
type ChapterInput struct {
	Title    string
	Content  string
	Position int
}

// CourseService manages courses and chapters. Every content mutation enqueues
// an index job so the vector index follows the source of truth.
type CourseService struct {
	courseRepo CourseRepository
	jobs       IndexJobQueue
	index      SourceIndex
	uuidGen    UUIDGenerator
}

func NewCourseService(courseRepo CourseRepository, jobs IndexJobQueue, index SourceIndex, uuidGen UUIDGenerator) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		jobs:       jobs,
		index:      index,
		uuidGen:    uuidGen,
	}
}

func (s *CourseService) CreateCourse(ctx context.Context, ownerID string, input CourseInput) (*domain.Course, error) {
	if ownerID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "owner ID is required")
	}

	course := domain.NewCourse(s.uuidGen.NewString(), ownerID, input.Title, input.Description)
	course.Outline = input.Outline
	course.Tags = input.Tags
	if input.Level != "" {
		course.Level = input.Level
	}

	if err := domain.ValidateCourse(course); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	if err := s.enqueueIndex(ctx, course.ID, domain.SourceTypeCourse); err != nil {
		return nil, err
	}

	return course, nil
}

func (s *CourseService) GetCourse(ctx context.Context, id string) (*domain.Course, error) {
	if id == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "course ID is required")
	}
	return s.courseRepo.GetByID(ctx, id)
}

// ListCourses pages through a user's courses, newest first. cursorToken is
// the opaque token from a previous page, empty for the first page.
func (s *CourseService) ListCourses(ctx context.Context, ownerID, cursorToken string, limit int) (*pagination.Page[*domain.Course], error) {
	if ownerID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "owner ID is required")
	}

	cursor, err := pagination.Decode(cursorToken)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid page cursor", err)
	}

	return s.courseRepo.ListByOwner(ctx, ownerID, cursor, limit)
}

func (s *CourseService) UpdateCourse(ctx context.Context, userID, id string, input CourseInput) (*domain.Course, error) {
	course, err := s.ownedCourse(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	course.Title = input.Title
	course.Description = input.Description
	course.Outline = input.Outline
	course.Tags = input.Tags
	if input.Level != "" {
		course.Level = input.Level
	}
	course.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateCourse(course); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	if err := s.enqueueIndex(ctx, course.ID, domain.SourceTypeCourse); err != nil {
		return nil, err
	}

	return course, nil
}

// DeleteCourse removes a course, its chapters, and every chunk indexed from
// them.
func (s *CourseService) DeleteCourse(ctx context.Context, userID, id string) error {
	course, err := s.ownedCourse(ctx, userID, id)
	if err != nil {
		return err
	}

	chapters, err := s.courseRepo.ListChapters(ctx, course.ID)
	if err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, course.ID); err != nil {
		return err
	}

	for _, ch := range chapters {
		if err := s.index.DeleteSource(ctx, ch.ID, domain.SourceTypeChapter); err != nil {
			return err
		}
	}
	return s.index.DeleteSource(ctx, course.ID, domain.SourceTypeCourse)
}

func (s *CourseService) AddChapter(ctx context.Context, userID, courseID string, input ChapterInput) (*domain.Chapter, error) {
	course, err := s.ownedCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	chapter := &domain.Chapter{
		ID:        s.uuidGen.NewString(),
		CourseID:  course.ID,
		Title:     input.Title,
		Content:   input.Content,
		Position:  input.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := domain.ValidateChapter(chapter); err != nil {
		return nil, err
	}

	if err := s.courseRepo.CreateChapter(ctx, chapter); err != nil {
		return nil, err
	}

	if err := s.enqueueIndex(ctx, chapter.ID, domain.SourceTypeChapter); err != nil {
		return nil, err
	}

	return chapter, nil
}

func (s *CourseService) GetChapter(ctx context.Context, id string) (*domain.Chapter, error) {
	if id == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "chapter ID is required")
	}
	return s.courseRepo.GetChapterByID(ctx, id)
}

func (s *CourseService) ListChapters(ctx context.Context, courseID string) ([]*domain.Chapter, error) {
	if courseID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "course ID is required")
	}
	return s.courseRepo.ListChapters(ctx, courseID)
}

func (s *CourseService) UpdateChapter(ctx context.Context, userID, chapterID string, input ChapterInput) (*domain.Chapter, error) {
	chapter, err := s.courseRepo.GetChapterByID(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedCourse(ctx, userID, chapter.CourseID); err != nil {
		return nil, err
	}

	chapter.Title = input.Title
	chapter.Content = input.Content
	chapter.Position = input.Position
	chapter.UpdatedAt = time.Now().UTC()

	if err := domain.ValidateChapter(chapter); err != nil {
		return nil, err
	}

	if err := s.courseRepo.UpdateChapter(ctx, chapter); err != nil {
		return nil, err
	}

	if err := s.enqueueIndex(ctx, chapter.ID, domain.SourceTypeChapter); err != nil {
		return nil, err
	}

	return chapter, nil
}

func (s *CourseService) DeleteChapter(ctx context.Context, userID, chapterID string) error {
	chapter, err := s.courseRepo.GetChapterByID(ctx, chapterID)
	if err != nil {
		return err
	}
	if _, err := s.ownedCourse(ctx, userID, chapter.CourseID); err != nil {
		return err
	}

	if err := s.courseRepo.DeleteChapter(ctx, chapter.ID); err != nil {
		return err
	}

	return s.index.DeleteSource(ctx, chapter.ID, domain.SourceTypeChapter)
}

func (s *CourseService) ownedCourse(ctx context.Context, userID, courseID string) (*domain.Course, error) {
	if courseID == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "course ID is required")
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.OwnerID != userID {
		return nil, domain.ErrNotCourseOwner
	}
	return course, nil
}

func (s *CourseService) enqueueIndex(ctx context.Context, sourceID string, sourceType domain.SourceType) error {
	job := domain.NewIndexJob(s.uuidGen.NewString(), sourceID, sourceType)
	return s.jobs.Create(ctx, job)
}
