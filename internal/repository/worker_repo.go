package repository

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/sagescript/sage_go_server/internal/model"
)

// WorkerRepository 工作进程侧的写路径。
// 只有这里能把任务写成 IN_PROGRESS/COMPLETED/FAILED；核心侧拿不到这些方法。
type WorkerRepository struct {
	db *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

func (r *WorkerRepository) updateStatus(jobID int64, status string) error {
	result := r.db.Model(&model.ScheduledJob{}).
		Where("job_id = ?", jobID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkInProgress 领取任务。同一事务内清掉上一轮运行留下的结果和脚本，
// 重新排队的任务不会把新旧结果混在一起。
func (r *WorkerRepository) MarkInProgress(jobID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.ScheduledJob{}).
			Where("job_id = ?", jobID).
			Update("status", model.StatusInProgress)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		storyIDs := tx.Model(&model.UserStory{}).Select("user_story_id").Where("job_id = ?", jobID)
		if err := tx.Where("user_story_id IN (?)", storyIDs).Delete(&model.AutomationScript{}).Error; err != nil {
			return err
		}
		return tx.Where("job_id = ?", jobID).Delete(&model.FunctionalTestCase{}).Error
	})
}

func (r *WorkerRepository) MarkCompleted(jobID int64) error {
	return r.updateStatus(jobID, model.StatusCompleted)
}

func (r *WorkerRepository) MarkFailed(jobID int64) error {
	return r.updateStatus(jobID, model.StatusFailed)
}

// SaveTestCases 写入一条故事的生成结果，逐行入库，保持生成顺序
func (r *WorkerRepository) SaveTestCases(jobID int64, storyID string, results []json.RawMessage) error {
	if len(results) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, raw := range results {
			row := &model.FunctionalTestCase{
				JobID:       jobID,
				UserStoryID: storyID,
				Result:      model.JSONValue(raw),
			}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveScript 写入一条故事的自动化脚本
func (r *WorkerRepository) SaveScript(storyID string, script json.RawMessage) error {
	if len(script) == 0 {
		return nil
	}
	row := &model.AutomationScript{
		UserStoryID: storyID,
		Script:      model.JSONValue(script),
	}
	return r.db.Create(row).Error
}
