package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyhub-ai/studyhub/internal/domain"
)

type MockJobProcessor struct {
	mock.Mock
}

func (m *MockJobProcessor) ProcessJobs(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockIndexJobRepository struct {
	mock.Mock
}

func (m *MockIndexJobRepository) ClaimPending(ctx context.Context, limit int) ([]*domain.IndexJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.IndexJob), args.Error(1)
}

func (m *MockIndexJobRepository) MarkCompleted(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockIndexJobRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	args := m.Called(ctx, id, errMsg)
	return args.Error(0)
}

func (m *MockIndexJobRepository) ReclaimStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockIndexJobRepository) RequeueFailed(ctx context.Context, maxRetries int32) (int64, error) {
	args := m.Called(ctx, maxRetries)
	return args.Get(0).(int64), args.Error(1)
}

type MockCourseSource struct {
	mock.Mock
}

func (m *MockCourseSource) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *MockCourseSource) GetChapterByID(ctx context.Context, id string) (*domain.Chapter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Chapter), args.Error(1)
}

type MockUploadSource struct {
	mock.Mock
}

func (m *MockUploadSource) GetByID(ctx context.Context, id string) (*domain.Upload, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Upload), args.Error(1)
}

type MockSourceIndexer struct {
	mock.Mock
}

func (m *MockSourceIndexer) IndexCourse(ctx context.Context, course *domain.Course, chapters []*domain.Chapter) error {
	args := m.Called(ctx, course, chapters)
	return args.Error(0)
}

func (m *MockSourceIndexer) IndexChapter(ctx context.Context, ch *domain.Chapter) (bool, error) {
	args := m.Called(ctx, ch)
	return args.Bool(0), args.Error(1)
}

func (m *MockSourceIndexer) IndexUpload(ctx context.Context, upload *domain.Upload) (bool, error) {
	args := m.Called(ctx, upload)
	return args.Bool(0), args.Error(1)
}

func (m *MockSourceIndexer) DeleteSource(ctx context.Context, sourceID string, sourceType domain.SourceType) error {
	args := m.Called(ctx, sourceID, sourceType)
	return args.Error(0)
}

func TestWorker_StartStop(t *testing.T) {
	processor := new(MockJobProcessor)
	processor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(processor, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(120 * time.Millisecond)
	worker.Stop()
	wg.Wait()

	processor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

func TestWorker_KeepsPollingAfterError(t *testing.T) {
	processor := new(MockJobProcessor)
	processor.On("ProcessJobs", mock.Anything).Return(errors.New("transient"))

	worker := NewWorker(processor, 30*time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)
	worker.Stop()
	wg.Wait()

	assert.GreaterOrEqual(t, len(processor.Calls), 2)
}

func newIndexWorkerFixture() (*MockIndexJobRepository, *MockCourseSource, *MockUploadSource, *MockSourceIndexer, *IndexWorker) {
	jobRepo := new(MockIndexJobRepository)
	courses := new(MockCourseSource)
	uploads := new(MockUploadSource)
	indexer := new(MockSourceIndexer)
	worker := NewIndexWorker(jobRepo, courses, uploads, indexer)
	return jobRepo, courses, uploads, indexer, worker
}

func TestIndexWorker_ProcessJobs_Course(t *testing.T) {
	jobRepo, courses, _, indexer, worker := newIndexWorkerFixture()

	course := &domain.Course{ID: "c1", OwnerID: "u1", Title: "Go", Level: domain.CourseLevelBeginner}
	job := domain.NewIndexJob("j1", "c1", domain.SourceTypeCourse)

	jobRepo.On("ReclaimStale", mock.Anything, staleJobAge).Return(int64(0), nil)
	jobRepo.On("RequeueFailed", mock.Anything, int32(MaxRetries)).Return(int64(0), nil)
	jobRepo.On("ClaimPending", mock.Anything, claimBatchSize).Return([]*domain.IndexJob{job}, nil)
	courses.On("GetByID", mock.Anything, "c1").Return(course, nil)
	indexer.On("IndexCourse", mock.Anything, course, []*domain.Chapter(nil)).Return(nil)
	jobRepo.On("MarkCompleted", mock.Anything, "j1").Return(nil)

	require.NoError(t, worker.ProcessJobs(context.Background()))

	jobRepo.AssertExpectations(t)
	indexer.AssertExpectations(t)
}

func TestIndexWorker_ProcessJobs_UploadFailure(t *testing.T) {
	jobRepo, _, uploads, indexer, worker := newIndexWorkerFixture()

	upload := &domain.Upload{ID: "up1", UserID: "u1", ExtractedText: "notes"}
	job := domain.NewIndexJob("j1", "up1", domain.SourceTypeUpload)

	jobRepo.On("ReclaimStale", mock.Anything, mock.Anything).Return(int64(0), nil)
	jobRepo.On("RequeueFailed", mock.Anything, mock.Anything).Return(int64(0), nil)
	jobRepo.On("ClaimPending", mock.Anything, mock.Anything).Return([]*domain.IndexJob{job}, nil)
	uploads.On("GetByID", mock.Anything, "up1").Return(upload, nil)
	indexer.On("IndexUpload", mock.Anything, upload).Return(false, errors.New("db down"))
	jobRepo.On("MarkFailed", mock.Anything, "j1", "db down").Return(nil)

	require.NoError(t, worker.ProcessJobs(context.Background()))

	jobRepo.AssertExpectations(t)
	jobRepo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything)
}

func TestIndexWorker_ProcessJobs_DeletedSourceCompletes(t *testing.T) {
	jobRepo, courses, _, indexer, worker := newIndexWorkerFixture()

	job := domain.NewIndexJob("j1", "ch1", domain.SourceTypeChapter)

	jobRepo.On("ReclaimStale", mock.Anything, mock.Anything).Return(int64(0), nil)
	jobRepo.On("RequeueFailed", mock.Anything, mock.Anything).Return(int64(0), nil)
	jobRepo.On("ClaimPending", mock.Anything, mock.Anything).Return([]*domain.IndexJob{job}, nil)
	courses.On("GetChapterByID", mock.Anything, "ch1").Return(nil, domain.ErrChapterNotFound)
	indexer.On("DeleteSource", mock.Anything, "ch1", domain.SourceTypeChapter).Return(nil)
	jobRepo.On("MarkCompleted", mock.Anything, "j1").Return(nil)

	require.NoError(t, worker.ProcessJobs(context.Background()))

	indexer.AssertExpectations(t)
	jobRepo.AssertExpectations(t)
}

func TestIndexWorker_ProcessJobs_ReclaimsStaleClaims(t *testing.T) {
	jobRepo, _, _, _, worker := newIndexWorkerFixture()

	jobRepo.On("ReclaimStale", mock.Anything, staleJobAge).Return(int64(2), nil)
	jobRepo.On("RequeueFailed", mock.Anything, int32(MaxRetries)).Return(int64(2), nil)
	jobRepo.On("ClaimPending", mock.Anything, mock.Anything).Return([]*domain.IndexJob{}, nil)

	require.NoError(t, worker.ProcessJobs(context.Background()))

	jobRepo.AssertExpectations(t)
}

func TestIndexWorker_ProcessJobs_ReclaimErrorStopsPass(t *testing.T) {
	jobRepo, _, _, _, worker := newIndexWorkerFixture()

	jobRepo.On("ReclaimStale", mock.Anything, mock.Anything).Return(int64(0), errors.New("db down"))

	require.Error(t, worker.ProcessJobs(context.Background()))

	jobRepo.AssertNotCalled(t, "ClaimPending", mock.Anything, mock.Anything)
}

func TestIndexWorker_ProcessJobs_UnknownSourceType(t *testing.T) {
	jobRepo, _, _, _, worker := newIndexWorkerFixture()

	job := &domain.IndexJob{ID: "j1", SourceID: "x", SourceType: domain.SourceType("webinar"), Status: domain.IndexJobStatusPending}

	jobRepo.On("ReclaimStale", mock.Anything, mock.Anything).Return(int64(0), nil)
	jobRepo.On("RequeueFailed", mock.Anything, mock.Anything).Return(int64(0), nil)
	jobRepo.On("ClaimPending", mock.Anything, mock.Anything).Return([]*domain.IndexJob{job}, nil)
	jobRepo.On("MarkFailed", mock.Anything, "j1", mock.Anything).Return(nil)

	require.NoError(t, worker.ProcessJobs(context.Background()))
	jobRepo.AssertExpectations(t)
}

func TestIndexWorker_ProcessJobs_NoJobs(t *testing.T) {
	jobRepo, _, _, _, worker := newIndexWorkerFixture()

	jobRepo.On("ReclaimStale", mock.Anything, mock.Anything).Return(int64(0), nil)
	jobRepo.On("RequeueFailed", mock.Anything, mock.Anything).Return(int64(0), nil)
	jobRepo.On("ClaimPending", mock.Anything, mock.Anything).Return([]*domain.IndexJob{}, nil)

	require.NoError(t, worker.ProcessJobs(context.Background()))
}
