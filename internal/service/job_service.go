package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/sagescript/sage_go_server/internal/model"
	"github.com/sagescript/sage_go_server/internal/model/dto"
	"github.com/sagescript/sage_go_server/internal/pkg/queue"
	"github.com/sagescript/sage_go_server/internal/pkg/testcases"
	"github.com/sagescript/sage_go_server/internal/repository"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrEmptyBatch  = errors.New("at least one user story is required")
	ErrMixedBatch  = errors.New("all stories in a batch must share user, project and framework")
)

// 列表和结果里的提交时间展示格式
const submittedAtLayout = "Jan 02, 03:04 PM"

// Dispatcher 任务派发出站端口。把 job_id 交给工作进程后即完成，
// 核心对工作进程侧的状态没有任何可见性。
type Dispatcher interface {
	Enqueue(ctx context.Context, task string, jobID int64) error
}

type JobService struct {
	jobRepo    *repository.JobRepository
	dispatcher Dispatcher
}

func NewJobService(jobRepo *repository.JobRepository, dispatcher Dispatcher) *JobService {
	return &JobService{
		jobRepo:    jobRepo,
		dispatcher: dispatcher,
	}
}

// Submit 校验批次、落库并派发。
// 任务字段取首条载荷；与首条不一致的批次直接拒绝。
// 入队失败不回滚已提交的任务，留给 Regenerate 手动恢复。
func (s *JobService) Submit(ctx context.Context, payloads []dto.StoryPayload) (*dto.SubmitResponse, error) {
	if len(payloads) == 0 {
		return nil, ErrEmptyBatch
	}

	first := payloads[0]
	for _, p := range payloads[1:] {
		if p.UserID != first.UserID || p.ProjectName != first.ProjectName || p.FrameworkChoice != first.FrameworkChoice {
			return nil, ErrMixedBatch
		}
	}

	job, err := s.jobRepo.CreateJob(payloads)
	if err != nil {
		return nil, err
	}

	if err := s.dispatcher.Enqueue(ctx, queue.TaskGenerateTests, job.ID); err != nil {
		// 任务已入库但没通知到工作进程，保持 IN_QUEUE 等待手动 regenerate
		log.Printf("job %d: enqueue failed: %v", job.ID, err)
	}

	return &dto.SubmitResponse{
		JobID:          job.ID,
		Status:         model.StatusInQueue,
		UserStoryCount: len(payloads),
	}, nil
}

// List 全部任务，按提交时间倒序
func (s *JobService) List() ([]dto.JobListItem, error) {
	rows, err := s.jobRepo.ListWithTestCounts()
	if err != nil {
		return nil, err
	}

	items := make([]dto.JobListItem, len(rows))
	for i, row := range rows {
		items[i] = dto.JobListItem{
			ID:          row.JobID,
			Project:     row.ProjectName,
			Description: derefOrEmpty(row.Description),
			Status:      model.StatusLabel(row.Status),
			Submitted:   row.SubmittedAt.Format(submittedAtLayout),
			Tests:       row.TestCount,
		}
	}
	return items, nil
}

// GetDetail 任务详情：每条故事各自展开结果并统计优先级
func (s *JobService) GetDetail(jobID int64) (*dto.JobDetail, error) {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	stories, err := s.jobRepo.ListStories(jobID)
	if err != nil {
		return nil, err
	}

	detail := &dto.JobDetail{
		ID:              job.ID,
		Project:         job.ProjectName,
		SubProject:      job.SubProjectName,
		Description:     job.Description,
		FrameworkChoice: job.FrameworkChoice,
		Status:          job.Status,
		SubmittedAt:     job.SubmittedAt.Format(time.RFC3339),
		Stories:         make([]dto.StoryDetail, 0, len(stories)),
	}

	totalCases := 0
	for _, story := range stories {
		rows, err := s.jobRepo.ListStoryTestCases(story.ID)
		if err != nil {
			return nil, err
		}
		scripts, err := s.jobRepo.ListStoryScripts(story.ID)
		if err != nil {
			return nil, err
		}

		flat := testcases.FlattenRaw(resultColumns(rows))
		summary := testcases.SummarizePriorities(flat)
		totalCases += len(flat)

		scriptItems := make([]dto.ScriptItem, len(scripts))
		for i, sc := range scripts {
			scriptItems[i] = dto.ScriptItem{
				AutomationID: sc.ID,
				Script:       json.RawMessage(sc.Script),
			}
		}

		detail.Stories = append(detail.Stories, dto.StoryDetail{
			UserStoryID:         story.ID,
			UserStoryText:       story.UserStoryText,
			AcceptanceCriteria:  story.AcceptanceCriteria,
			FunctionalTestCases: flat,
			AutomationScripts:   scriptItems,
			HighPriorityCount:   summary[testcases.PriorityHigh],
			MediumPriorityCount: summary[testcases.PriorityMedium],
			LowPriorityCount:    summary[testcases.PriorityLow],
		})
	}

	detail.TestCount = totalCases
	return detail, nil
}

// GetResults 任务级聚合：整个任务的结果一次展开，一次统计。
// 脚本包只取任务内第一条（按故事顺序），多故事任务也只透出一份。
func (s *JobService) GetResults(jobID int64) (*dto.ResultsBundle, error) {
	rows, scripts, job, err := s.jobRepo.FetchResults(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	flat := testcases.FlattenRaw(resultColumns(rows))
	summary := testcases.SummarizePriorities(flat)

	var scriptBundle json.RawMessage
	if len(scripts) > 0 {
		scriptBundle = json.RawMessage(scripts[0].Script)
	} else {
		scriptBundle = json.RawMessage(`{}`)
	}

	return &dto.ResultsBundle{
		HighPriorityCount:   summary[testcases.PriorityHigh],
		MediumPriorityCount: summary[testcases.PriorityMedium],
		LowPriorityCount:    summary[testcases.PriorityLow],
		TestCases:           flat,
		AutomationScripts:   scriptBundle,
		JobInfo: dto.JobInfo{
			JobID:       job.ID,
			ProjectName: job.ProjectName,
			Description: job.Description,
			Status:      model.StatusLabel(job.Status),
			SubmittedAt: job.SubmittedAt.Format(time.RFC3339),
			TestCount:   len(flat),
		},
	}, nil
}

// Delete 删除任务及全部从属数据
func (s *JobService) Delete(jobID int64) error {
	err := s.jobRepo.Delete(jobID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrJobNotFound
	}
	return err
}

// Regenerate 无条件把任务重置回 IN_QUEUE 并重新派发，任何状态下都可调用
func (s *JobService) Regenerate(ctx context.Context, jobID int64) error {
	err := s.jobRepo.ResetForRequeue(jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJobNotFound
		}
		return err
	}

	if err := s.dispatcher.Enqueue(ctx, queue.TaskGenerateTests, jobID); err != nil {
		log.Printf("job %d: re-enqueue failed: %v", jobID, err)
	}
	return nil
}

func resultColumns(rows []model.FunctionalTestCase) []json.RawMessage {
	raws := make([]json.RawMessage, len(rows))
	for i, row := range rows {
		raws[i] = json.RawMessage(row.Result)
	}
	return raws
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
