package testutil

import (
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sagescript/sage_go_server/internal/model"
	"github.com/sagescript/sage_go_server/internal/model/dto"
)

// TestPassword 所有测试用户的明文密码
const TestPassword = "password123"

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	user := &model.User{
		DisplayName:  fmt.Sprintf("testuser_%d", time.Now().UnixNano()%100000000),
		Email:        fmt.Sprintf("test_%d@example.com", time.Now().UnixNano()),
		PasswordHash: string(hash),
		Status:       "active",
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithDisplayName 设置显示名
func WithDisplayName(name string) func(*model.User) {
	return func(u *model.User) {
		u.DisplayName = name
	}
}

// WithUserStatus 设置用户状态
func WithUserStatus(status string) func(*model.User) {
	return func(u *model.User) {
		u.Status = status
	}
}

// TestProject 创建测试项目
func TestProject(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.UserProject)) *model.UserProject {
	t.Helper()

	project := &model.UserProject{
		UserID:      userID,
		ProjectName: fmt.Sprintf("Test Project %d", time.Now().UnixNano()%100000),
	}

	for _, opt := range opts {
		opt(project)
	}

	if err := db.Create(project).Error; err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}

	return project
}

// WithSubProject 设为子目录项目
func WithSubProject(parent string) func(*model.UserProject) {
	return func(p *model.UserProject) {
		p.SubProjectName = &parent
	}
}

// StoryBatch 构造 n 条同属一个提交批次的故事载荷
func StoryBatch(userID int64, projectName string, n int) []dto.StoryPayload {
	batch := make([]dto.StoryPayload, n)
	for i := 0; i < n; i++ {
		batch[i] = dto.StoryPayload{
			UserStory:          fmt.Sprintf("As a user I want feature %d", i+1),
			AcceptanceCriteria: fmt.Sprintf("Given X when Y then Z (%d)", i+1),
			FrameworkChoice:    "java_selenium",
			UserID:             userID,
			ProjectName:        projectName,
		}
	}
	return batch
}

// TestJob 创建测试任务（不含故事）
func TestJob(t *testing.T, db *gorm.DB, userID int64, status string, opts ...func(*model.ScheduledJob)) *model.ScheduledJob {
	t.Helper()

	job := &model.ScheduledJob{
		UserID:          userID,
		ProjectName:     "Checkout",
		FrameworkChoice: "java_selenium",
		Status:          status,
		UserStoryCount:  1,
		SubmittedAt:     time.Now(),
	}

	for _, opt := range opts {
		opt(job)
	}

	if err := db.Create(job).Error; err != nil {
		t.Fatalf("Failed to create test job: %v", err)
	}

	return job
}

// WithSubmittedAt 设置提交时间
func WithSubmittedAt(ts time.Time) func(*model.ScheduledJob) {
	return func(j *model.ScheduledJob) {
		j.SubmittedAt = ts
	}
}

// WithProjectName 设置项目名
func WithProjectName(name string) func(*model.ScheduledJob) {
	return func(j *model.ScheduledJob) {
		j.ProjectName = name
	}
}

// TestStory 创建测试用户故事
func TestStory(t *testing.T, db *gorm.DB, jobID int64, seq int) *model.UserStory {
	t.Helper()

	story := &model.UserStory{
		ID:                 fmt.Sprintf("US-%d-%d", jobID, seq),
		JobID:              jobID,
		Seq:                seq,
		UserStoryText:      fmt.Sprintf("As a user I want feature %d", seq),
		AcceptanceCriteria: "Given X when Y then Z",
	}

	if err := db.Create(story).Error; err != nil {
		t.Fatalf("Failed to create test story: %v", err)
	}

	return story
}

// TestTestCase 写入一条结果行，result 为原样 JSON
func TestTestCase(t *testing.T, db *gorm.DB, jobID int64, storyID string, result string) *model.FunctionalTestCase {
	t.Helper()

	row := &model.FunctionalTestCase{
		JobID:       jobID,
		UserStoryID: storyID,
		Result:      model.JSONValue(result),
	}

	if err := db.Create(row).Error; err != nil {
		t.Fatalf("Failed to create test case row: %v", err)
	}

	return row
}

// TestScript 写入一条自动化脚本
func TestScript(t *testing.T, db *gorm.DB, storyID string, script string) *model.AutomationScript {
	t.Helper()

	row := &model.AutomationScript{
		UserStoryID: storyID,
		Script:      model.JSONValue(script),
	}

	if err := db.Create(row).Error; err != nil {
		t.Fatalf("Failed to create test script row: %v", err)
	}

	return row
}
