package viewmodel_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"social-analytics-dashboard/internal/models"
	"social-analytics-dashboard/internal/viewmodel"
)

func posts(model string, n int) []models.Post {
	out := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Post{
			ID:         fmt.Sprintf("%s-%d", model, i),
			Platform:   "instagram",
			Model:      model,
			Text:       "post",
			Engagement: i,
		})
	}
	return out
}

func TestBuildBrandCards(t *testing.T) {
	brands := map[string]models.BrandResult{
		"Zeta": {},
		"Acme": {
			Instagram: models.PlatformResult{
				Profile: models.Profile{Followers: 1234567},
				Posts:   append(posts("x1", 8), posts("", 1)...),
				Metrics: models.Metrics{TotalEngagement: 4200},
			},
			Facebook: models.PlatformResult{
				Posts: append(posts("x2", 2), posts("unclassified", 2)...),
			},
			OverallMetrics: models.Metrics{
				TotalPosts:      13,
				TotalEngagement: 12500,
				ModelBreakdown: map[string]models.ModelStats{
					"x2": {PostsCount: 3, TotalEngagement: 300, AverageEngagement: 99.6, EngagementRate: 2.25},
					"x1": {PostsCount: 8, TotalEngagement: 1000, AverageEngagement: 125, EngagementRate: 4},
					"x3": {PostsCount: 1},
				},
			},
		},
	}

	cards := viewmodel.BuildBrandCards(brands)

	require.Len(t, cards, 2)
	assert.Equal(t, "Acme", cards[0].Name)
	assert.Equal(t, "Zeta", cards[1].Name)

	acme := cards[0]
	assert.Equal(t, "12,500", acme.TotalEngagement)
	assert.Equal(t, "1,234,567", acme.Platforms[0].Followers)
	assert.Equal(t, 9, acme.Platforms[0].Posts)

	require.Len(t, acme.Models, 3)
	assert.Equal(t, "x1", acme.Models[0].Model)
	assert.Equal(t, viewmodel.BadgeHigh, acme.Models[0].RateBadge)
	assert.Equal(t, "4.0%", acme.Models[0].EngagementRate)
	assert.Equal(t, viewmodel.BadgeMedium, acme.Models[1].RateBadge)
	assert.Equal(t, "100", acme.Models[1].AverageEngagement)
	assert.Equal(t, viewmodel.BadgeLow, acme.Models[2].RateBadge)

	require.Len(t, acme.Sections, 3)
	assert.Equal(t, "x1", acme.Sections[0].Model)
	assert.Len(t, acme.Sections[0].Posts, 6)
	assert.Equal(t, "Showing 6 of 8 posts", acme.Sections[0].Label)
	assert.Equal(t, "x2", acme.Sections[1].Model)
	assert.Equal(t, "2 posts", acme.Sections[1].Label)
	assert.True(t, acme.Sections[2].Unclassified)
	assert.Equal(t, 3, acme.Sections[2].Total)

	assert.Empty(t, cards[1].Sections)
	assert.Empty(t, cards[1].Models)
}

func TestBadges(t *testing.T) {
	assert.Equal(t, viewmodel.BadgeLow, viewmodel.RateBadge(2))
	assert.Equal(t, viewmodel.BadgeMedium, viewmodel.RateBadge(5))
	assert.Equal(t, viewmodel.BadgeHigh, viewmodel.RateBadge(6))

	assert.Equal(t, viewmodel.BadgeLow, viewmodel.ConfidenceBadge(49))
	assert.Equal(t, viewmodel.BadgeMedium, viewmodel.ConfidenceBadge(50))
	assert.Equal(t, viewmodel.BadgeHigh, viewmodel.ConfidenceBadge(80))
}

func TestBuildPostCard(t *testing.T) {
	card := viewmodel.BuildPostCard(models.Post{
		Platform:                 "facebook",
		Caption:                  strings.Repeat("a", 150),
		Text:                     "ignored",
		Engagement:               2500,
		Timestamp:                "2025-01-15T10:30:00",
		ClassificationConfidence: 65,
	}, 120)

	assert.Equal(t, strings.Repeat("a", 120)+"...", card.Excerpt)
	assert.Equal(t, "2,500", card.Engagement)
	assert.Equal(t, "2025-01-15", card.Date)
	assert.Equal(t, viewmodel.BadgeMedium, card.ConfidenceBadge)

	empty := viewmodel.BuildPostCard(models.Post{}, 100)
	assert.Equal(t, "No text content", empty.Excerpt)
	assert.Empty(t, empty.ConfidenceBadge)
	assert.Empty(t, empty.Thumbnails.URLs)
}

func TestBuildThumbnails(t *testing.T) {
	ig := "https://scontent.cdninstagram.com/v/a.jpg?x=1&y=2"
	fb := "https://scontent.fbcdn.net/b.jpg"

	single := viewmodel.BuildThumbnails(models.Post{Thumbnail: ig})
	require.Len(t, single.URLs, 1)
	assert.Equal(t, "/api/v1/image-proxy?url=https%3A%2F%2Fscontent.cdninstagram.com%2Fv%2Fa.jpg%3Fx%3D1%26y%3D2", single.URLs[0])

	many := viewmodel.BuildThumbnails(models.Post{Thumbnails: []string{fb, "https://example.com/1.png", fb, fb, fb, fb}})
	assert.Len(t, many.URLs, 4)
	assert.Equal(t, "https://example.com/1.png", many.URLs[1])
	assert.Equal(t, "+3", many.Overflow)

	four := viewmodel.BuildThumbnails(models.Post{Thumbnails: []string{fb, fb, fb, fb}})
	assert.Empty(t, four.Overflow)
}

func TestIsProxiedImageURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://scontent.cdninstagram.com/a.jpg", true},
		{"http://external.xx.fbcdn.net/b.jpg", true},
		{"https://fbcdn.net/c.jpg", true},
		{"https://SCONTENT.CDNINSTAGRAM.COM/a.jpg", true},
		{"https://example.com/a.jpg?u=cdninstagram.com", false},
		{"https://cdninstagram.com.example.com/a.jpg", false},
		{"https://notfbcdn.net/a.jpg", false},
		{"ftp://scontent.cdninstagram.com/a.jpg", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, viewmodel.IsProxiedImageURL(tt.url), tt.url)
	}

	assert.Equal(t, "https://example.com/a.jpg?u=cdninstagram.com", viewmodel.ProxiedImageURL("https://example.com/a.jpg?u=cdninstagram.com"))
}

func TestFormatCount(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4500: "-4,500"}
	for in, want := range tests {
		assert.Equal(t, want, viewmodel.FormatCount(in))
	}
}

func TestBuildProgress(t *testing.T) {
	assert.Equal(t, viewmodel.Progress{Percent: 0, Color: "blue", Status: "starting"}, viewmodel.BuildProgress("starting", "", -5))
	assert.Equal(t, "yellow", viewmodel.BuildProgress("processing", "", 30).Color)
	assert.Equal(t, "yellow", viewmodel.BuildProgress("processing", "", 79).Color)

	p := viewmodel.BuildStatusProgress(&models.AnalysisStatus{Status: "completed", Progress: 140, Message: "Done"})
	assert.Equal(t, 100, p.Percent)
	assert.Equal(t, "green", p.Color)
	assert.Equal(t, "Done", p.Message)
}

func TestBuildHistory(t *testing.T) {
	entries := viewmodel.BuildHistory([]models.AnalysisSummary{
		{AnalysisID: "0123456789abcdef", Status: "completed", Progress: 100, UpdatedAt: "2025-01-15T10:30:00"},
		{AnalysisID: "abc", Status: "error", Message: "boom"},
		{AnalysisID: "fedcba9876543210", Status: "processing", Progress: 40},
	})

	require.Len(t, entries, 3)
	assert.Equal(t, "01234567", entries[0].ShortID)
	assert.True(t, entries[0].Loadable)
	assert.Equal(t, "green", entries[0].Color)
	assert.Equal(t, "2025-01-15 10:30:00", entries[0].UpdatedAt)
	assert.Equal(t, "No message", entries[0].Message)

	assert.Equal(t, "abc", entries[1].ShortID)
	assert.False(t, entries[1].Loadable)
	assert.Equal(t, "times-circle", entries[1].Icon)

	assert.Equal(t, "blue", entries[2].Color)
	assert.False(t, entries[2].Loadable)
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, viewmodel.WriteSummary(&buf, nil))
	assert.Equal(t, "No brand data available\n", buf.String())

	buf.Reset()
	cards := viewmodel.BuildBrandCards(map[string]models.BrandResult{
		"Acme": {OverallMetrics: models.Metrics{TotalPosts: 3, TotalEngagement: 1500}},
	})
	require.NoError(t, viewmodel.WriteSummary(&buf, cards))
	assert.Contains(t, buf.String(), "Acme")
	assert.Contains(t, buf.String(), "1,500 engagement")
}
