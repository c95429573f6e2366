package catalog

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"telugudb/pkg/database"
	"telugudb/pkg/models"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db, zerolog.Nop()))
	return NewRepo(db)
}

func ptr[T any](v T) *T {
	return &v
}

func movieFixture(title, language string) *models.Content {
	return &models.Content{
		Type:            models.ContentTypeMovie,
		Title:           title,
		Poster:          "https://img.example/" + title + ".jpg",
		Description:     "A film.",
		Year:            "2024",
		Language:        language,
		Category:        "Latest",
		Quality:         "1080p",
		Rating:          ptr(8.1),
		Tags:            []string{"action", "drama"},
		EmbedIframeLink: "https://play.example/embed/" + title,
		DownloadLink:    "https://dl.example/" + title,
	}
}

// seriesFixture builds a series with one season per entry in
// episodesPerSeason, numbered from 1.
func seriesFixture(title string, episodesPerSeason ...int) *models.Content {
	c := &models.Content{
		Type:     models.ContentTypeSeries,
		Title:    title,
		Poster:   "https://img.example/" + title + ".jpg",
		Language: "Telugu",
		Category: "Web Series",
		Seasons:  []models.Season{},
	}
	for i, n := range episodesPerSeason {
		s := models.Season{SeasonNumber: i + 1, Episodes: []models.Episode{}}
		for e := 1; e <= n; e++ {
			s.Episodes = append(s.Episodes, models.Episode{
				EpisodeNumber: e,
				EpisodeTitle:  "Episode",
				DownloadLink:  "https://dl.example/ep",
				Quality:       "720p",
			})
		}
		c.Seasons = append(c.Seasons, s)
	}
	return c
}

func titles(items []models.Content) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.Title
	}
	return out
}
