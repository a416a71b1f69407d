package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sagescript/sage_go_server/internal/model"
	"github.com/sagescript/sage_go_server/internal/model/dto"
)

// JobRepository 核心侧的任务读写。状态只会被这里写成 IN_QUEUE；
// IN_PROGRESS/COMPLETED/FAILED 归 WorkerRepository 所有。
type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// JobWithCount 列表行：任务 + 聚合的用例数
type JobWithCount struct {
	JobID       int64     `gorm:"column:job_id"`
	ProjectName string    `gorm:"column:project_name"`
	Description *string   `gorm:"column:description"`
	Status      string    `gorm:"column:status"`
	SubmittedAt time.Time `gorm:"column:submitted_at"`
	TestCount   int64     `gorm:"column:test_count"`
}

// ErrEmptyPayloads 空批次不构成任务
var ErrEmptyPayloads = errors.New("story payloads must not be empty")

// CreateJob 事务内创建任务及其全部用户故事。
// 任务字段取首条载荷；故事 ID 为 US-{job_id}-{n}，n 按提交顺序从 1 开始。
// 任何一条故事写入失败都会整体回滚，不留下半个任务。
func (r *JobRepository) CreateJob(payloads []dto.StoryPayload) (*model.ScheduledJob, error) {
	if len(payloads) == 0 {
		return nil, ErrEmptyPayloads
	}

	first := payloads[0]
	job := &model.ScheduledJob{
		UserID:          first.UserID,
		ProjectName:     first.ProjectName,
		SubProjectName:  first.SubProjectName,
		Description:     first.Description,
		FrameworkChoice: first.FrameworkChoice,
		Status:          model.StatusInQueue,
		UserStoryCount:  len(payloads),
		SubmittedAt:     time.Now(),
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(job).Error; err != nil {
			return err
		}
		for i, p := range payloads {
			story := &model.UserStory{
				ID:                 fmt.Sprintf("US-%d-%d", job.ID, i+1),
				JobID:              job.ID,
				Seq:                i + 1,
				UserStoryText:      p.UserStory,
				AcceptanceCriteria: p.AcceptanceCriteria,
			}
			if err := tx.Create(story).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return job, nil
}

func (r *JobRepository) GetByID(jobID int64) (*model.ScheduledJob, error) {
	var job model.ScheduledJob
	err := r.db.Where("job_id = ?", jobID).First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ListWithTestCounts 按提交时间倒序返回全部任务及各自的用例数
func (r *JobRepository) ListWithTestCounts() ([]JobWithCount, error) {
	var rows []JobWithCount
	err := r.db.Model(&model.ScheduledJob{}).
		Select("scheduled_jobs.job_id, scheduled_jobs.project_name, scheduled_jobs.description, scheduled_jobs.status, scheduled_jobs.submitted_at, COUNT(function_test_cases.test_case_id) AS test_count").
		Joins("LEFT JOIN function_test_cases ON function_test_cases.job_id = scheduled_jobs.job_id").
		Group("scheduled_jobs.job_id, scheduled_jobs.project_name, scheduled_jobs.description, scheduled_jobs.status, scheduled_jobs.submitted_at").
		Order("scheduled_jobs.submitted_at DESC").
		Scan(&rows).Error
	return rows, err
}

// Delete 删除任务及其全部从属行。
// 级联在仓储层显式执行，保证 MySQL 和 SQLite 测试库行为一致。
func (r *JobRepository) Delete(jobID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var job model.ScheduledJob
		if err := tx.Where("job_id = ?", jobID).First(&job).Error; err != nil {
			return err
		}

		storyIDs := tx.Model(&model.UserStory{}).Select("user_story_id").Where("job_id = ?", jobID)

		if err := tx.Where("user_story_id IN (?)", storyIDs).Delete(&model.AutomationScript{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", jobID).Delete(&model.FunctionalTestCase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_id = ?", jobID).Delete(&model.UserStory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&job).Error
	})
}

// ResetForRequeue 把任务重置回排队状态并刷新提交时间。
// 不动故事和历史结果行，旧结果由下一次工作进程运行时清掉。
func (r *JobRepository) ResetForRequeue(jobID int64) error {
	result := r.db.Model(&model.ScheduledJob{}).
		Where("job_id = ?", jobID).
		Updates(map[string]interface{}{
			"status":       model.StatusInQueue,
			"submitted_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListStories 按提交顺序返回任务的用户故事
func (r *JobRepository) ListStories(jobID int64) ([]model.UserStory, error) {
	var stories []model.UserStory
	err := r.db.Where("job_id = ?", jobID).Order("seq ASC").Find(&stories).Error
	return stories, err
}

// ListStoryTestCases 按写入顺序返回单条故事的结果行
func (r *JobRepository) ListStoryTestCases(storyID string) ([]model.FunctionalTestCase, error) {
	var cases []model.FunctionalTestCase
	err := r.db.Where("user_story_id = ?", storyID).Order("test_case_id ASC").Find(&cases).Error
	return cases, err
}

// ListStoryScripts 返回单条故事的自动化脚本
func (r *JobRepository) ListStoryScripts(storyID string) ([]model.AutomationScript, error) {
	var scripts []model.AutomationScript
	err := r.db.Where("user_story_id = ?", storyID).Order("automation_id ASC").Find(&scripts).Error
	return scripts, err
}

// FetchResults 任务级读取：全部结果行、全部脚本行（按故事顺序）和任务本身
func (r *JobRepository) FetchResults(jobID int64) ([]model.FunctionalTestCase, []model.AutomationScript, *model.ScheduledJob, error) {
	job, err := r.GetByID(jobID)
	if err != nil {
		return nil, nil, nil, err
	}

	var cases []model.FunctionalTestCase
	if err := r.db.Where("job_id = ?", jobID).Order("test_case_id ASC").Find(&cases).Error; err != nil {
		return nil, nil, nil, err
	}

	var scripts []model.AutomationScript
	err = r.db.Model(&model.AutomationScript{}).
		Select("automation_scripts.*").
		Joins("JOIN user_stories ON user_stories.user_story_id = automation_scripts.user_story_id").
		Where("user_stories.job_id = ?", jobID).
		Order("user_stories.seq ASC, automation_scripts.automation_id ASC").
		Find(&scripts).Error
	if err != nil {
		return nil, nil, nil, err
	}

	return cases, scripts, job, nil
}
