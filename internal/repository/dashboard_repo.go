package repository

import (
	"gorm.io/gorm"

	"github.com/sagescript/sage_go_server/internal/model"
)

// DashboardRepository 仪表盘只读聚合。每次调用都现查，不做缓存。
type DashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// CountProjects 用户的项目总数和根目录项目数
func (r *DashboardRepository) CountProjects(userID int64) (total int64, root int64, err error) {
	if err = r.db.Model(&model.UserProject{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.Model(&model.UserProject{}).
		Where("user_id = ? AND sub_project_name IS NULL", userID).
		Count(&root).Error; err != nil {
		return 0, 0, err
	}
	return total, root, nil
}

// CountTestCases 用户名下所有任务的用例总数
func (r *DashboardRepository) CountTestCases(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.FunctionalTestCase{}).
		Joins("JOIN scheduled_jobs ON scheduled_jobs.job_id = function_test_cases.job_id").
		Where("scheduled_jobs.user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountScripts 用户名下所有任务的脚本总数（经故事关联到任务）
func (r *DashboardRepository) CountScripts(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.AutomationScript{}).
		Joins("JOIN user_stories ON user_stories.user_story_id = automation_scripts.user_story_id").
		Joins("JOIN scheduled_jobs ON scheduled_jobs.job_id = user_stories.job_id").
		Where("scheduled_jobs.user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// RecentJobs 用户最近提交的任务及各自的用例数
func (r *DashboardRepository) RecentJobs(userID int64, limit int) ([]JobWithCount, error) {
	var rows []JobWithCount
	err := r.db.Model(&model.ScheduledJob{}).
		Select("scheduled_jobs.job_id, scheduled_jobs.project_name, scheduled_jobs.description, scheduled_jobs.status, scheduled_jobs.submitted_at, COUNT(function_test_cases.test_case_id) AS test_count").
		Joins("LEFT JOIN function_test_cases ON function_test_cases.job_id = scheduled_jobs.job_id").
		Where("scheduled_jobs.user_id = ?", userID).
		Group("scheduled_jobs.job_id, scheduled_jobs.project_name, scheduled_jobs.description, scheduled_jobs.status, scheduled_jobs.submitted_at").
		Order("scheduled_jobs.submitted_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// StatusCounts 用户任务的状态分布，缺失的状态由调用方按 0 处理
func (r *DashboardRepository) StatusCounts(userID int64) (map[string]int64, error) {
	type statusCount struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}

	var rows []statusCount
	err := r.db.Model(&model.ScheduledJob{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
