package model

import (
	"time"
)

// 任务状态。核心写路径只允许写 IN_QUEUE，
// 其余三个状态只由工作进程（repository.WorkerRepository）写入。
const (
	StatusInQueue    = "IN_QUEUE"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
)

var statusLabels = map[string]string{
	StatusInQueue:    "In Queue",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
	StatusFailed:     "Failed",
}

// StatusLabel 展示用状态文案，未知状态按排队中处理
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return statusLabels[StatusInQueue]
}

// ScheduledJob 一次批量提交的测试生成任务
type ScheduledJob struct {
	ID              int64     `gorm:"column:job_id;primaryKey" json:"job_id"`
	UserID          int64     `gorm:"not null;index" json:"user_id"`
	ProjectName     string    `gorm:"size:200;not null" json:"project_name"`
	SubProjectName  *string   `gorm:"size:200" json:"sub_project_name,omitempty"`
	Description     *string   `gorm:"type:text" json:"description,omitempty"`
	FrameworkChoice string    `gorm:"size:50" json:"framework_choice"`
	Status          string    `gorm:"size:20;default:IN_QUEUE;index" json:"status"`
	UserStoryCount  int       `gorm:"not null" json:"user_story_count"`
	SubmittedAt     time.Time `gorm:"index" json:"submitted_at"`

	Stories []UserStory `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE" json:"stories,omitempty"`
}

func (ScheduledJob) TableName() string {
	return "scheduled_jobs"
}

// UserStory 任务内的单条用户故事。
// 主键为 US-{job_id}-{n}，n 从 1 开始按提交顺序分配；Seq 冗余存一份数字序号，
// 避免按字符串主键排序时 US-1-10 排到 US-1-2 前面。
type UserStory struct {
	ID                 string `gorm:"column:user_story_id;primaryKey;size:50" json:"user_story_id"`
	JobID              int64  `gorm:"not null;index" json:"job_id"`
	Seq                int    `gorm:"not null" json:"seq"`
	UserStoryText      string `gorm:"type:text;not null" json:"user_story_text"`
	AcceptanceCriteria string `gorm:"type:text;not null" json:"acceptance_criteria"`

	TestCases []FunctionalTestCase `gorm:"foreignKey:UserStoryID;constraint:OnDelete:CASCADE" json:"test_cases,omitempty"`
	Scripts   []AutomationScript   `gorm:"foreignKey:UserStoryID;constraint:OnDelete:CASCADE" json:"scripts,omitempty"`
}

func (UserStory) TableName() string {
	return "user_stories"
}

// FunctionalTestCase 工作进程写入的生成结果行。
// result 列历史上存过单个对象、对象数组、嵌套数组和 JSON 字符串，读路径统一容错展开。
type FunctionalTestCase struct {
	ID          int64     `gorm:"column:test_case_id;primaryKey" json:"test_case_id"`
	JobID       int64     `gorm:"not null;index" json:"job_id"`
	UserStoryID string    `gorm:"size:50;not null;index" json:"user_story_id"`
	Result      JSONValue `gorm:"type:json" json:"result"`
	CreatedAt   time.Time `json:"created_at"`
}

func (FunctionalTestCase) TableName() string {
	return "function_test_cases"
}

// AutomationScript 自动化脚本，核心只做透传
type AutomationScript struct {
	ID          int64     `gorm:"column:automation_id;primaryKey" json:"automation_id"`
	UserStoryID string    `gorm:"size:50;not null;index" json:"user_story_id"`
	Script      JSONValue `gorm:"type:json" json:"script"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AutomationScript) TableName() string {
	return "automation_scripts"
}
