package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagescript/sage_go_server/internal/model"
	"github.com/sagescript/sage_go_server/internal/pkg/queue"
	"github.com/sagescript/sage_go_server/internal/repository"
	"github.com/sagescript/sage_go_server/internal/testutil"
)

// fakeDispatcher 记录派发调用，可注入失败
type fakeDispatcher struct {
	enqueued []int64
	err      error
}

func (f *fakeDispatcher) Enqueue(_ context.Context, task string, jobID int64) error {
	if f.err != nil {
		return f.err
	}
	if task != queue.TaskGenerateTests {
		return errors.New("unexpected task: " + task)
	}
	f.enqueued = append(f.enqueued, jobID)
	return nil
}

func TestJobService_Submit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	dispatcher := &fakeDispatcher{}
	svc := NewJobService(repository.NewJobRepository(db), dispatcher)
	user := testutil.TestUser(t, db)

	resp, err := svc.Submit(context.Background(), testutil.StoryBatch(user.ID, "Checkout", 3))
	require.NoError(t, err)
	assert.NotZero(t, resp.JobID)
	assert.Equal(t, model.StatusInQueue, resp.Status)
	assert.Equal(t, 3, resp.UserStoryCount)

	// 派发一次且带着新任务 ID
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, resp.JobID, dispatcher.enqueued[0])
}

func TestJobService_Submit_EmptyBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	dispatcher := &fakeDispatcher{}
	svc := NewJobService(repository.NewJobRepository(db), dispatcher)

	_, err := svc.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)
	assert.Empty(t, dispatcher.enqueued)
}

func TestJobService_Submit_MixedBatch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	dispatcher := &fakeDispatcher{}
	svc := NewJobService(repository.NewJobRepository(db), dispatcher)
	user := testutil.TestUser(t, db)

	batch := testutil.StoryBatch(user.ID, "Checkout", 2)
	batch[1].ProjectName = "Other"

	_, err := svc.Submit(context.Background(), batch)
	assert.ErrorIs(t, err, ErrMixedBatch)
	assert.Empty(t, dispatcher.enqueued)
}

func TestJobService_Submit_EnqueueFailureKeepsJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	dispatcher := &fakeDispatcher{err: errors.New("redis down")}
	jobRepo := repository.NewJobRepository(db)
	svc := NewJobService(jobRepo, dispatcher)
	user := testutil.TestUser(t, db)

	// 入队失败不算提交失败，任务留在 IN_QUEUE 等 regenerate
	resp, err := svc.Submit(context.Background(), testutil.StoryBatch(user.ID, "Checkout", 1))
	require.NoError(t, err)

	job, err := jobRepo.GetByID(resp.JobID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInQueue, job.Status)
}

func TestJobService_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewJobService(repository.NewJobRepository(db), &fakeDispatcher{})
	user := testutil.TestUser(t, db)

	job := testutil.TestJob(t, db, user.ID, model.StatusCompleted)
	story := testutil.TestStory(t, db, job.ID, 1)
	testutil.TestTestCase(t, db, job.ID, story.ID, `{"priority":"High"}`)

	items, err := svc.List()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, job.ID, items[0].ID)
	assert.Equal(t, "Completed", items[0].Status)
	assert.Equal(t, int64(1), items[0].Tests)
}

func TestJobService_GetDetail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewJobService(repository.NewJobRepository(db), &fakeDispatcher{})
	user := testutil.TestUser(t, db)

	job := testutil.TestJob(t, db, user.ID, model.StatusCompleted)
	story := testutil.TestStory(t, db, job.ID, 1)

	// 结果行一行嵌套数组、一行字符串化 JSON、一行垃圾
	testutil.TestTestCase(t, db, job.ID, story.ID, `[[{"id":"TC-1","priority":"High"}]]`)
	testutil.TestTestCase(t, db, job.ID, story.ID, `"{\"id\":\"TC-2\",\"priority\":\"low\"}"`)
	testutil.TestTestCase(t, db, job.ID, story.ID, `"not json at all"`)
	testutil.TestScript(t, db, story.ID, `{"language":"java"}`)

	detail, err := svc.GetDetail(job.ID)
	require.NoError(t, err)
	require.Len(t, detail.Stories, 1)

	sd := detail.Stories[0]
	assert.Equal(t, story.ID, sd.UserStoryID)
	// 垃圾行被丢弃，其余展开成平铺记录
	require.Len(t, sd.FunctionalTestCases, 2)
	assert.Equal(t, "TC-1", sd.FunctionalTestCases[0]["id"])
	assert.Equal(t, "TC-2", sd.FunctionalTestCases[1]["id"])
	assert.Equal(t, 1, sd.HighPriorityCount)
	assert.Equal(t, 0, sd.MediumPriorityCount)
	assert.Equal(t, 1, sd.LowPriorityCount)
	assert.Len(t, sd.AutomationScripts, 1)
	assert.Equal(t, 2, detail.TestCount)
}

func TestJobService_GetDetail_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewJobService(repository.NewJobRepository(db), &fakeDispatcher{})

	_, err := svc.GetDetail(99999)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobService_GetResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewJobService(repository.NewJobRepository(db), &fakeDispatcher{})
	user := testutil.TestUser(t, db)

	job := testutil.TestJob(t, db, user.ID, model.StatusCompleted)
	first := testutil.TestStory(t, db, job.ID, 1)
	second := testutil.TestStory(t, db, job.ID, 2)
	testutil.TestTestCase(t, db, job.ID, first.ID, `[{"id":"TC-1","priority":"High"},{"id":"TC-2","priority":"High"}]`)
	testutil.TestTestCase(t, db, job.ID, second.ID, `{"id":"TC-3","priority":"Medium"}`)

	// 两条故事各有脚本，结果包只透出第一条故事的
	testutil.TestScript(t, db, second.ID, `{"language":"js"}`)
	testutil.TestScript(t, db, first.ID, `{"language":"java"}`)

	bundle, err := svc.GetResults(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, bundle.HighPriorityCount)
	assert.Equal(t, 1, bundle.MediumPriorityCount)
	assert.Equal(t, 0, bundle.LowPriorityCount)
	assert.Len(t, bundle.TestCases, 3)
	assert.JSONEq(t, `{"language":"java"}`, string(bundle.AutomationScripts))
	assert.Equal(t, "Completed", bundle.JobInfo.Status)
	assert.Equal(t, 3, bundle.JobInfo.TestCount)
}

func TestJobService_GetResults_NoScripts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewJobService(repository.NewJobRepository(db), &fakeDispatcher{})
	user := testutil.TestUser(t, db)
	job := testutil.TestJob(t, db, user.ID, model.StatusInQueue)

	bundle, err := svc.GetResults(job.ID)
	require.NoError(t, err)
	assert.Empty(t, bundle.TestCases)
	assert.JSONEq(t, `{}`, string(bundle.AutomationScripts))
}

func TestJobService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewJobService(repository.NewJobRepository(db), &fakeDispatcher{})
	user := testutil.TestUser(t, db)
	job := testutil.TestJob(t, db, user.ID, model.StatusCompleted)

	require.NoError(t, svc.Delete(job.ID))
	assert.ErrorIs(t, svc.Delete(job.ID), ErrJobNotFound)
}

func TestJobService_Regenerate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	dispatcher := &fakeDispatcher{}
	jobRepo := repository.NewJobRepository(db)
	svc := NewJobService(jobRepo, dispatcher)
	user := testutil.TestUser(t, db)

	// 已完成的任务也能无条件重跑
	job := testutil.TestJob(t, db, user.ID, model.StatusCompleted)

	require.NoError(t, svc.Regenerate(context.Background(), job.ID))

	found, err := jobRepo.GetByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInQueue, found.Status)
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, job.ID, dispatcher.enqueued[0])
}

func TestJobService_Regenerate_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	dispatcher := &fakeDispatcher{}
	svc := NewJobService(repository.NewJobRepository(db), dispatcher)

	err := svc.Regenerate(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.Empty(t, dispatcher.enqueued)
}
