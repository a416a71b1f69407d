package service

import (
	"fmt"
	"strconv"

	"github.com/sagescript/sage_go_server/internal/model"
	"github.com/sagescript/sage_go_server/internal/model/dto"
	"github.com/sagescript/sage_go_server/internal/repository"
)

const recentJobsLimit = 5

type DashboardService struct {
	dashboardRepo *repository.DashboardRepository
}

func NewDashboardService(dashboardRepo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// GetDashboard 汇总用户的仪表盘数据。
// 没有任何数据的用户拿到全 0 快照，不报错。
func (s *DashboardService) GetDashboard(userID int64) (*dto.DashboardSnapshot, error) {
	totalProjects, rootProjects, err := s.dashboardRepo.CountProjects(userID)
	if err != nil {
		return nil, err
	}

	totalTestCases, err := s.dashboardRepo.CountTestCases(userID)
	if err != nil {
		return nil, err
	}

	totalScripts, err := s.dashboardRepo.CountScripts(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.dashboardRepo.RecentJobs(userID, recentJobsLimit)
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.dashboardRepo.StatusCounts(userID)
	if err != nil {
		return nil, err
	}

	activeJobs := statusCounts[model.StatusInProgress] + statusCounts[model.StatusInQueue]

	snapshot := &dto.DashboardSnapshot{
		Stats: []dto.DashboardStat{
			{
				Label:   "Total Projects",
				Value:   strconv.FormatInt(totalProjects, 10),
				Subtext: fmt.Sprintf("%d root folders", rootProjects),
			},
			{
				Label:   "Test Cases",
				Value:   strconv.FormatInt(totalTestCases, 10),
				Subtext: "Generated across all jobs",
			},
			{
				Label:   "Automation Scripts",
				Value:   strconv.FormatInt(totalScripts, 10),
				Subtext: "Java/Selenium/JS",
			},
			{
				Label:   "Active Jobs",
				Value:   strconv.FormatInt(activeJobs, 10),
				Subtext: "Currently in pipeline",
			},
		},
		RecentJobs:     make([]dto.RecentJob, 0, len(recent)),
		JobStatusStats: []dto.StatusStat{
			{Label: "Completed", Value: statusCounts[model.StatusCompleted], Color: "#10b981"},
			{Label: "In Progress", Value: statusCounts[model.StatusInProgress], Color: "#f59e0b"},
			{Label: "In Queue", Value: statusCounts[model.StatusInQueue], Color: "#6b7280"},
		},
	}

	for _, row := range recent {
		description := "No description"
		if row.Description != nil && *row.Description != "" {
			description = *row.Description
		}
		snapshot.RecentJobs = append(snapshot.RecentJobs, dto.RecentJob{
			Name:        row.ProjectName,
			Description: description,
			Status:      model.StatusLabel(row.Status),
			TestCount:   row.TestCount,
		})
	}

	return snapshot, nil
}
