package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performResponse(t *testing.T, fn func(c *gin.Context)) *Response {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fn(c)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp
}

func TestSuccess(t *testing.T) {
	resp := performResponse(t, func(c *gin.Context) {
		Success(c, map[string]any{"job_id": float64(1)})
	})

	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Equal(t, "success", resp.Message)
	assert.Equal(t, map[string]any{"job_id": float64(1)}, resp.Data)
}

func TestError_DefaultMessage(t *testing.T) {
	resp := performResponse(t, func(c *gin.Context) {
		NotFoundError(c, "")
	})

	assert.Equal(t, CodeResourceNotFound, resp.Code)
	assert.Equal(t, "resource not found", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestError_CustomMessage(t *testing.T) {
	resp := performResponse(t, func(c *gin.Context) {
		ParamError(c, "at least one user story is required")
	})

	assert.Equal(t, CodeParamError, resp.Code)
	assert.Equal(t, "at least one user story is required", resp.Message)
}
