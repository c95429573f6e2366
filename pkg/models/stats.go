package models

// Stats is the admin dashboard summary.
type Stats struct {
	TotalMovies   int `json:"totalMovies"`
	TotalSeries   int `json:"totalSeries"`
	TotalEpisodes int `json:"totalEpisodes"`
	TrendingCount int `json:"trendingCount"`
}
