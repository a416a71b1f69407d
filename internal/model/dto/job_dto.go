package dto

import "encoding/json"

// StoryPayload 单条用户故事提交载荷。
// 接口同时接受单个对象和数组，handler 统一归一成 []StoryPayload。
type StoryPayload struct {
	UserStory          string  `json:"user_story" binding:"required"`
	AcceptanceCriteria string  `json:"acceptance_criteria" binding:"required"`
	FrameworkChoice    string  `json:"framework_choice"`
	UserID             int64   `json:"user_id" binding:"required"`
	ProjectName        string  `json:"project_name" binding:"required"`
	SubProjectName     *string `json:"sub_project_name,omitempty"`
	Description        *string `json:"description,omitempty"`
}

// SubmitResponse 提交响应
type SubmitResponse struct {
	JobID          int64  `json:"job_id"`
	Status         string `json:"status"`
	UserStoryCount int    `json:"user_story_count"`
}

// JobListItem 任务列表项（status 为展示文案）
type JobListItem struct {
	ID          int64  `json:"id"`
	Project     string `json:"project"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Submitted   string `json:"submitted"`
	Tests       int64  `json:"tests"`
}

// ScriptItem 单条自动化脚本
type ScriptItem struct {
	AutomationID int64           `json:"automation_id"`
	Script       json.RawMessage `json:"script"`
}

// StoryDetail 任务详情里的单条用户故事及其结果
type StoryDetail struct {
	UserStoryID         string           `json:"user_story_id"`
	UserStoryText       string           `json:"user_story_text"`
	AcceptanceCriteria  string           `json:"acceptance_criteria"`
	FunctionalTestCases []map[string]any `json:"functional_test_cases"`
	AutomationScripts   []ScriptItem     `json:"automation_scripts"`
	HighPriorityCount   int              `json:"high_priority_count"`
	MediumPriorityCount int              `json:"medium_priority_count"`
	LowPriorityCount    int              `json:"low_priority_count"`
}

// JobDetail 任务详情
type JobDetail struct {
	ID              int64         `json:"id"`
	Project         string        `json:"project"`
	SubProject      *string       `json:"sub_project,omitempty"`
	Description     *string       `json:"description,omitempty"`
	FrameworkChoice string        `json:"framework_choice"`
	Status          string        `json:"status"`
	SubmittedAt     string        `json:"submitted_at"`
	Stories         []StoryDetail `json:"user_stories"`
	TestCount       int           `json:"test_count"`
}

// JobInfo 结果包内的任务摘要（status 为展示文案）
type JobInfo struct {
	JobID       int64   `json:"job_id"`
	ProjectName string  `json:"project_name"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	SubmittedAt string  `json:"submitted_at"`
	TestCount   int     `json:"test_count"`
}

// ResultsBundle 任务级聚合结果
type ResultsBundle struct {
	HighPriorityCount   int              `json:"high_priority_count"`
	MediumPriorityCount int              `json:"medium_priority_count"`
	LowPriorityCount    int              `json:"low_priority_count"`
	TestCases           []map[string]any `json:"test_cases"`
	AutomationScripts   json.RawMessage  `json:"automation_scripts"`
	JobInfo             JobInfo          `json:"job_info"`
}

// RegenerateResponse 重新排队响应
type RegenerateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	JobID   int64  `json:"job_id"`
}
