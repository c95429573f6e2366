package catalog

import "telugudb/pkg/models"

// Stats is the admin dashboard summary.
type Stats = models.Stats

// Predicate selects documents for CountWhere.
type Predicate func(*models.Content) bool

func TypeIs(t models.ContentType) Predicate {
	return func(c *models.Content) bool { return c.Type == t }
}

func CategoryIs(category string) Predicate {
	return func(c *models.Content) bool { return c.Category == category }
}

// CountWhere counts the documents matching pred.
func CountWhere(items []models.Content, pred Predicate) int {
	n := 0
	for i := range items {
		if pred(&items[i]) {
			n++
		}
	}
	return n
}

// TotalEpisodes sums episodes over every season of every series.
// Movies contribute nothing even if they carry stray seasons.
func TotalEpisodes(items []models.Content) int {
	total := 0
	for i := range items {
		total += items[i].EpisodeCount()
	}
	return total
}

// ComputeStats derives the dashboard figures from the full collection.
func ComputeStats(items []models.Content) Stats {
	return Stats{
		TotalMovies:   CountWhere(items, TypeIs(models.ContentTypeMovie)),
		TotalSeries:   CountWhere(items, TypeIs(models.ContentTypeSeries)),
		TotalEpisodes: TotalEpisodes(items),
		TrendingCount: CountWhere(items, CategoryIs(models.CategoryTrending)),
	}
}
