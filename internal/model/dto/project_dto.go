package dto

// CreateProjectRequest 创建项目请求。parentId 为 "root" 时创建根目录项目。
type CreateProjectRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	ParentID    string  `json:"parentId" binding:"required"`
	UserID      int64   `json:"user_id" binding:"required"` // TEMP: 后续改从 JWT 取
	Description *string `json:"description,omitempty"`
}

// ProjectItem 项目列表项
type ProjectItem struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Count      int      `json:"count"`
	SubFolders []string `json:"subFolders"`
}
