package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/sagescript/sage_go_server/internal/model"
	"github.com/sagescript/sage_go_server/internal/pkg/pubsub"
	"github.com/sagescript/sage_go_server/internal/pkg/queue"
	"github.com/sagescript/sage_go_server/internal/repository"
)

// GenerationResult 单条故事的生成产物
type GenerationResult struct {
	TestCases []json.RawMessage
	Script    json.RawMessage
}

// Generator 测试生成端口。实现方对接具体 LLM 网关，处理器不关心生成细节。
type Generator interface {
	Generate(ctx context.Context, story *model.UserStory, framework string) (*GenerationResult, error)
}

// Processor 任务处理器。状态机的 IN_PROGRESS/COMPLETED/FAILED 三个迁移都发生在这里。
type Processor struct {
	jobRepo    *repository.JobRepository
	workerRepo *repository.WorkerRepository
	generator  Generator
	publisher  *pubsub.Publisher
}

func NewProcessor(
	jobRepo *repository.JobRepository,
	workerRepo *repository.WorkerRepository,
	generator Generator,
	publisher *pubsub.Publisher,
) *Processor {
	return &Processor{
		jobRepo:    jobRepo,
		workerRepo: workerRepo,
		generator:  generator,
		publisher:  publisher,
	}
}

// Process 处理一条队列消息。
// 消息指向的任务可能已被删除，这种情况只记日志不报错（删除优先于排队残留）。
func (p *Processor) Process(ctx context.Context, msg *queue.TaskMessage) error {
	job, err := p.jobRepo.GetByID(msg.JobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("job %d: gone before processing, skipping", msg.JobID)
			return nil
		}
		return fmt.Errorf("failed to load job %d: %w", msg.JobID, err)
	}

	// 领取任务，同时清掉上一轮的结果行
	if err := p.workerRepo.MarkInProgress(job.ID); err != nil {
		return fmt.Errorf("failed to mark job %d in progress: %w", job.ID, err)
	}

	publish := func(storyID, status, stage string, progress int, errMsg string) {
		if perr := p.publisher.PublishProgress(ctx, &pubsub.ProgressMessage{
			UserID:      job.UserID,
			JobID:       job.ID,
			UserStoryID: storyID,
			Status:      status,
			Stage:       stage,
			Progress:    progress,
			Error:       errMsg,
		}); perr != nil {
			log.Printf("job %d: publish progress failed: %v", job.ID, perr)
		}
	}

	fail := func(stage string, err error) error {
		if merr := p.workerRepo.MarkFailed(job.ID); merr != nil {
			log.Printf("job %d: mark failed error: %v", job.ID, merr)
		}
		publish("", "failed", stage, 0, err.Error())
		return err
	}

	publish("", "processing", pubsub.StageStarted, 0, "")

	stories, err := p.jobRepo.ListStories(job.ID)
	if err != nil {
		return fail(pubsub.StageStarted, fmt.Errorf("failed to list stories for job %d: %w", job.ID, err))
	}

	for i := range stories {
		story := &stories[i]

		publish(story.ID, "processing", pubsub.StageGenerating, percent(i, len(stories)), "")

		result, err := p.generator.Generate(ctx, story, job.FrameworkChoice)
		if err != nil {
			return fail(pubsub.StageGenerating, fmt.Errorf("story %s: generation failed: %w", story.ID, err))
		}

		publish(story.ID, "processing", pubsub.StageStoring, percent(i, len(stories)), "")

		if err := p.workerRepo.SaveTestCases(job.ID, story.ID, result.TestCases); err != nil {
			return fail(pubsub.StageStoring, fmt.Errorf("story %s: save test cases failed: %w", story.ID, err))
		}
		if err := p.workerRepo.SaveScript(story.ID, result.Script); err != nil {
			return fail(pubsub.StageStoring, fmt.Errorf("story %s: save script failed: %w", story.ID, err))
		}
	}

	if err := p.workerRepo.MarkCompleted(job.ID); err != nil {
		return fmt.Errorf("failed to mark job %d completed: %w", job.ID, err)
	}

	publish("", "completed", pubsub.StageDone, 100, "")
	log.Printf("job %d: completed, %d stories", job.ID, len(stories))
	return nil
}

func percent(done, total int) int {
	if total == 0 {
		return 100
	}
	return done * 100 / total
}
