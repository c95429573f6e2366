package catalog

import (
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"telugudb/pkg/models"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float64 `xml:"priority"`
}

// BuildSitemap lists the home and admin pages plus one detail page per
// content item, with the detail path chosen by content type.
func BuildSitemap(baseURL string, items []models.Content, now time.Time) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	today := now.UTC().Format(time.RFC3339)

	set := urlSet{
		XMLNS: sitemapNS,
		URLs: []sitemapURL{
			{Loc: base, LastMod: today, ChangeFreq: "daily", Priority: 1},
			{Loc: base + "/admin", LastMod: today, ChangeFreq: "monthly", Priority: 0.3},
		},
	}

	for _, item := range items {
		path := "series"
		if item.Type == models.ContentTypeMovie {
			path = "movie"
		}
		lastMod := item.UpdatedAt
		if lastMod.IsZero() {
			lastMod = now
		}
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        base + "/" + path + "/" + item.ID,
			LastMod:    lastMod.UTC().Format(time.RFC3339),
			ChangeFreq: "weekly",
			Priority:   0.8,
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// SitemapHandler serves GET /sitemap.xml. When the store is unavailable
// it still serves the static routes.
func SitemapHandler(store Store, baseURL string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := store.List(c.Request.Context(), Filter{})
		if err != nil {
			log.Warn().Err(err).Msg("sitemap: could not list content, serving static routes only")
			items = nil
		}

		body, err := BuildSitemap(baseURL, items, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("sitemap: encode")
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
	}
}
