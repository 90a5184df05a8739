package models

// DashboardStats is a computed snapshot over the whole corpus. It is never
// persisted; every request recomputes it.
type DashboardStats struct {
	TotalUsers           int     `json:"totalUsers"`
	TotalSpeeches        int     `json:"totalSpeeches"`
	ActiveUsersLast7Days int     `json:"activeUsersLast7Days"`
	AverageOverallScore  float64 `json:"averageOverallScore"`
	TotalPracticeMinutes int     `json:"totalPracticeMinutes"`
	SpeechesThisWeek     int     `json:"speechesThisWeek"`
	TotalAdmins          int     `json:"totalAdmins"`
}
