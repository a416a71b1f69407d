package dto

// DashboardStat 顶部统计卡片
type DashboardStat struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Subtext string `json:"subtext"`
}

// RecentJob 最近任务（最多 5 条）
type RecentJob struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	TestCount   int64  `json:"testCount"`
}

// StatusStat 状态分布
type StatusStat struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}

// DashboardSnapshot 每次读都重新聚合，不做缓存
type DashboardSnapshot struct {
	Stats          []DashboardStat `json:"stats"`
	RecentJobs     []RecentJob     `json:"recentJobs"`
	JobStatusStats []StatusStat    `json:"jobStatusStats"`
}
