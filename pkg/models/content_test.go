package models

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentJSONCarriesBothIDKeys(t *testing.T) {
	b, err := json.Marshal(Content{ID: "abc", Type: ContentTypeMovie, Title: "RRR"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "abc", m["_id"])
	assert.Equal(t, "abc", m["id"])
	assert.NotContains(t, m, "seasons")

	var back Content
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, "abc", back.ID)
}

func TestSeriesAlwaysCarriesSeasons(t *testing.T) {
	for _, seasons := range [][]Season{nil, {}} {
		b, err := json.Marshal(Content{ID: "s1", Type: ContentTypeSeries, Title: "Farzi", Seasons: seasons})
		require.NoError(t, err)

		var m map[string]any
		require.NoError(t, json.Unmarshal(b, &m))
		require.Contains(t, m, "seasons")
		assert.Equal(t, []any{}, m["seasons"])
		assert.Equal(t, 1, bytes.Count(b, []byte(`"seasons"`)))
	}

	b, err := json.Marshal(Content{Type: ContentTypeSeries, Seasons: []Season{{SeasonNumber: 1, Episodes: []Episode{}}}})
	require.NoError(t, err)
	var back Content
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back.Seasons, 1)
	assert.Equal(t, 1, back.Seasons[0].SeasonNumber)
}

func TestEpisodeCount(t *testing.T) {
	seasons := []Season{
		{SeasonNumber: 1, Episodes: make([]Episode, 3)},
		{SeasonNumber: 2, Episodes: make([]Episode, 5)},
		{SeasonNumber: 3, Episodes: []Episode{}},
	}
	assert.Equal(t, 8, (&Content{Type: ContentTypeSeries, Seasons: seasons}).EpisodeCount())
	assert.Equal(t, 0, (&Content{Type: ContentTypeMovie, Seasons: seasons}).EpisodeCount())
	assert.Equal(t, 0, (&Content{Type: ContentTypeSeries}).EpisodeCount())
}

func TestDisplayBanner(t *testing.T) {
	assert.Equal(t, "poster", (&Content{Poster: "poster"}).DisplayBanner())
	assert.Equal(t, "banner", (&Content{Poster: "poster", Banner: "banner"}).DisplayBanner())
}

func TestCloneIsDeep(t *testing.T) {
	r := 8.0
	orig := &Content{
		Rating: &r,
		Tags:   []string{"a"},
		Seasons: []Season{
			{SeasonNumber: 1, Episodes: []Episode{{EpisodeNumber: 1, EpisodeTitle: "One"}}},
			{SeasonNumber: 2, Episodes: []Episode{}},
		},
	}
	cp := orig.Clone()

	*cp.Rating = 1
	cp.Tags[0] = "b"
	cp.Seasons[0].Episodes[0].EpisodeTitle = "changed"

	assert.Equal(t, 8.0, *orig.Rating)
	assert.Equal(t, "a", orig.Tags[0])
	assert.Equal(t, "One", orig.Seasons[0].Episodes[0].EpisodeTitle)
	assert.NotNil(t, cp.Seasons[1].Episodes)
}

func TestPatchApply(t *testing.T) {
	title := "New"
	empty := ""
	c := &Content{ID: "x", Type: ContentTypeMovie, Title: "Old", Description: "desc", Language: "Telugu"}

	ContentPatch{Title: &title, Description: &empty}.Apply(c)
	assert.Equal(t, "New", c.Title)
	assert.Equal(t, "", c.Description)
	assert.Equal(t, "Telugu", c.Language)
	assert.Equal(t, "x", c.ID)

	var none []Season
	ContentPatch{Seasons: &none}.Apply(c)
	assert.NotNil(t, c.Seasons)
	assert.Empty(t, c.Seasons)
}

func TestPatchEmpty(t *testing.T) {
	assert.True(t, ContentPatch{}.Empty())
	title := "x"
	assert.False(t, ContentPatch{Title: &title}.Empty())

	var p ContentPatch
	require.NoError(t, json.Unmarshal([]byte(`{"rating":7.5}`), &p))
	require.NotNil(t, p.Rating)
	require.NotNil(t, p.Rating.Value)
	assert.Equal(t, 7.5, *p.Rating.Value)
	assert.Nil(t, p.Title)
}

func TestPatchRatingAcceptsFormText(t *testing.T) {
	c := &Content{Type: ContentTypeMovie, Title: "RRR", Rating: ptrFloat(5)}

	tests := []struct {
		body string
		want *float64
	}{
		{`{"rating":8}`, ptrFloat(8)},
		{`{"rating":"7.5"}`, ptrFloat(7.5)},
		{`{"rating":" 6 "}`, ptrFloat(6)},
		{`{"rating":""}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var p ContentPatch
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			require.NotNil(t, p.Rating)

			got := c.Clone()
			p.Apply(got)
			assert.Equal(t, tt.want, got.Rating)
		})
	}

	var p ContentPatch
	require.NoError(t, json.Unmarshal([]byte(`{"rating":null}`), &p))
	assert.Nil(t, p.Rating)

	for _, bad := range []string{`{"rating":"high"}`, `{"rating":"NaN"}`, `{"rating":true}`} {
		assert.Error(t, json.Unmarshal([]byte(bad), &p), bad)
	}
}

func ptrFloat(v float64) *float64 { return &v }
