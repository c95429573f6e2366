package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ContentPatch is a partial update. Nil fields leave the stored value
// untouched; Seasons, when present, replaces the whole nested list.
//
// Type is accepted so clients can echo the full document back, but it
// must match the stored type.
type ContentPatch struct {
	Type            *ContentType `json:"type,omitempty"`
	Title           *string      `json:"title,omitempty"`
	Poster          *string      `json:"poster,omitempty"`
	Banner          *string      `json:"banner,omitempty"`
	Description     *string      `json:"description,omitempty"`
	Year            *string      `json:"year,omitempty"`
	Language        *string      `json:"language,omitempty"`
	Category        *string      `json:"category,omitempty"`
	Quality         *string      `json:"quality,omitempty"`
	Rating          *RatingValue `json:"rating,omitempty"`
	Tags            *[]string    `json:"tags,omitempty"`
	EmbedIframeLink *string      `json:"embedIframeLink,omitempty"`
	DownloadLink    *string      `json:"downloadLink,omitempty"`
	Seasons         *[]Season    `json:"seasons,omitempty"`
}

// Apply merges the patch into c. It does not validate the result and
// never touches ID, Type, CreatedAt or UpdatedAt.
func (p ContentPatch) Apply(c *Content) {
	setString(&c.Title, p.Title)
	setString(&c.Poster, p.Poster)
	setString(&c.Banner, p.Banner)
	setString(&c.Description, p.Description)
	setString(&c.Year, p.Year)
	setString(&c.Language, p.Language)
	setString(&c.Category, p.Category)
	setString(&c.Quality, p.Quality)
	setString(&c.EmbedIframeLink, p.EmbedIframeLink)
	setString(&c.DownloadLink, p.DownloadLink)

	if p.Rating != nil {
		if p.Rating.Value == nil {
			c.Rating = nil
		} else {
			r := *p.Rating.Value
			c.Rating = &r
		}
	}
	if p.Tags != nil {
		c.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.Seasons != nil {
		next := Content{Seasons: *p.Seasons}
		c.Seasons = next.Clone().Seasons
		if c.Seasons == nil {
			c.Seasons = []Season{}
		}
	}
}

// Empty reports whether the patch would change nothing.
func (p ContentPatch) Empty() bool {
	return p == ContentPatch{}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// RatingValue is the rating of an update body. Edit forms post it as a
// number or as the text of the input box, so both decode; an empty
// string clears the rating.
type RatingValue struct {
	Value *float64
}

// RatingOf is a rating patch that sets v.
func RatingOf(v float64) *RatingValue {
	return &RatingValue{Value: &v}
}

func (r *RatingValue) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		r.Value = &n
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("rating must be a number, got %s", b)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		r.Value = nil
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Errorf("rating must be a number, got %q", s)
	}
	r.Value = &n
	return nil
}

func (r RatingValue) MarshalJSON() ([]byte, error) {
	if r.Value == nil {
		return []byte(`""`), nil
	}
	return json.Marshal(*r.Value)
}
