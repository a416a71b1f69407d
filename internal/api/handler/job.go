package handler

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sagescript/sage_go_server/internal/model/dto"
	"github.com/sagescript/sage_go_server/internal/pkg/response"
	"github.com/sagescript/sage_go_server/internal/service"
)

type JobHandler struct {
	jobService *service.JobService
}

func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// Submit 提交一批用户故事生成测试用例。
// 兼容历史客户端：body 可以是单个对象，也可以是对象数组。
// POST /api/generate-test-cases
func (h *JobHandler) Submit(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.ParamError(c, "failed to read request body")
		return
	}

	payloads, err := decodeStoryBatch(body)
	if err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.jobService.Submit(c.Request.Context(), payloads)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBatch), errors.Is(err, service.ErrMixedBatch):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// decodeStoryBatch 把单对象或数组 body 归一成非空且字段齐全的批次
func decodeStoryBatch(body []byte) ([]dto.StoryPayload, error) {
	var payloads []dto.StoryPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		var single dto.StoryPayload
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, errors.New("body must be a story payload or an array of story payloads")
		}
		payloads = []dto.StoryPayload{single}
	}

	for i, p := range payloads {
		if p.UserStory == "" || p.AcceptanceCriteria == "" || p.ProjectName == "" || p.UserID == 0 {
			return nil, errors.New("story " + strconv.Itoa(i+1) + ": user_story, acceptance_criteria, project_name and user_id are required")
		}
	}
	return payloads, nil
}

// List 任务列表
// GET /api/jobs
func (h *JobHandler) List(c *gin.Context) {
	items, err := h.jobService.List()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Get 任务详情
// GET /api/jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	detail, err := h.jobService.GetDetail(jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, detail)
}

// Delete 删除任务
// DELETE /api/jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	if err := h.jobService.Delete(jobID); err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "Job deleted", nil)
}

// Regenerate 重置并重新排队
// POST /api/jobs/:id/regenerate
func (h *JobHandler) Regenerate(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	if err := h.jobService.Regenerate(c.Request.Context(), jobID); err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, dto.RegenerateResponse{
		Status:  "success",
		Message: "Job sent to queue",
		JobID:   jobID,
	})
}

// Results 任务级聚合结果
// GET /api/results/:id
func (h *JobHandler) Results(c *gin.Context) {
	jobID, ok := parseJobID(c)
	if !ok {
		return
	}

	bundle, err := h.jobService.GetResults(jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, bundle)
}

func parseJobID(c *gin.Context) (int64, bool) {
	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "invalid job id")
		return 0, false
	}
	return jobID, true
}
