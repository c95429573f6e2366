package models

import (
	"encoding/json"
	"time"
)

// ContentType distinguishes movies from web series.
type ContentType string

const (
	ContentTypeMovie  ContentType = "movie"
	ContentTypeSeries ContentType = "series"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	return t == ContentTypeMovie || t == ContentTypeSeries
}

// CategoryTrending is the category the home feed and stats treat as trending.
const CategoryTrending = "Trending"

// Content is one catalog entry: a movie or a web series.
//
// The identifier is serialized as "_id" (what the web client reads) and,
// through MarshalJSON, also as "id".
type Content struct {
	ID              string      `json:"_id" bson:"-"`
	Type            ContentType `json:"type" bson:"type" validate:"required,oneof=movie series"`
	Title           string      `json:"title" bson:"title" validate:"notblank"`
	Poster          string      `json:"poster" bson:"poster" validate:"notblank"`
	Banner          string      `json:"banner,omitempty" bson:"banner,omitempty"`
	Description     string      `json:"description,omitempty" bson:"description,omitempty"`
	Year            string      `json:"year,omitempty" bson:"year,omitempty"`
	Language        string      `json:"language,omitempty" bson:"language,omitempty"`
	Category        string      `json:"category,omitempty" bson:"category,omitempty"`
	Quality         string      `json:"quality,omitempty" bson:"quality,omitempty"`
	Rating          *float64    `json:"rating,omitempty" bson:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	Tags            []string    `json:"tags,omitempty" bson:"tags,omitempty"`
	EmbedIframeLink string      `json:"embedIframeLink,omitempty" bson:"embedIframeLink,omitempty"`
	DownloadLink    string      `json:"downloadLink,omitempty" bson:"downloadLink,omitempty"`
	Seasons         []Season    `json:"seasons,omitempty" bson:"seasons,omitempty" validate:"unique=SeasonNumber,dive"`
	CreatedAt       time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// Season is an ordered group of episodes inside a series.
type Season struct {
	SeasonNumber int       `json:"seasonNumber" bson:"seasonNumber" validate:"gt=0"`
	Episodes     []Episode `json:"episodes" bson:"episodes" validate:"unique=EpisodeNumber,dive"`
}

// Episode carries its own playback and download links.
type Episode struct {
	EpisodeNumber   int    `json:"episodeNumber" bson:"episodeNumber" validate:"gt=0"`
	EpisodeTitle    string `json:"episodeTitle" bson:"episodeTitle" validate:"notblank"`
	EmbedIframeLink string `json:"embedIframeLink,omitempty" bson:"embedIframeLink,omitempty"`
	DownloadLink    string `json:"downloadLink" bson:"downloadLink" validate:"notblank"`
	Quality         string `json:"quality,omitempty" bson:"quality,omitempty"`
}

// MarshalJSON adds "id" next to "_id". A series always carries
// "seasons", even when it has none yet.
func (c Content) MarshalJSON() ([]byte, error) {
	type alias Content
	out := struct {
		ID string `json:"id"`
		alias
		Seasons *[]Season `json:"seasons,omitempty"`
	}{ID: c.ID, alias: alias(c)}

	if c.Type == ContentTypeSeries || len(c.Seasons) > 0 {
		seasons := c.Seasons
		if seasons == nil {
			seasons = []Season{}
		}
		out.Seasons = &seasons
	}
	return json.Marshal(out)
}

// DisplayBanner is the wide hero image, falling back to the poster.
func (c *Content) DisplayBanner() string {
	if c.Banner != "" {
		return c.Banner
	}
	return c.Poster
}

// EpisodeCount is the number of episodes across all seasons.
// Movies always count zero.
func (c *Content) EpisodeCount() int {
	if c.Type != ContentTypeSeries {
		return 0
	}
	n := 0
	for _, s := range c.Seasons {
		n += len(s.Episodes)
	}
	return n
}

// Clone returns a deep copy so callers can mutate without aliasing
// the tags, rating or nested seasons of the original.
func (c *Content) Clone() *Content {
	out := *c
	if c.Rating != nil {
		r := *c.Rating
		out.Rating = &r
	}
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.Seasons != nil {
		out.Seasons = make([]Season, len(c.Seasons))
		for i, s := range c.Seasons {
			out.Seasons[i] = Season{SeasonNumber: s.SeasonNumber}
			if s.Episodes != nil {
				out.Seasons[i].Episodes = make([]Episode, len(s.Episodes))
				copy(out.Seasons[i].Episodes, s.Episodes)
			}
		}
	}
	return &out
}
