// Package viewmodel shapes analysis results into display-ready structures
// for the dashboard API and the CLI summary.
package viewmodel

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"social-analytics-dashboard/internal/models"
)

// ImageProxyPath is where the dashboard serves proxied thumbnails.
const ImageProxyPath = "/api/v1/image-proxy"

const (
	maxPostsPerModel  = 6
	maxThumbnails     = 4
	listExcerptLen    = 120
	sectionExcerptLen = 100
	noTextContent     = "No text content"
	unclassifiedModel = "unclassified"
)

type Badge string

const (
	BadgeHigh   Badge = "high"
	BadgeMedium Badge = "medium"
	BadgeLow    Badge = "low"
)

type BrandCard struct {
	Name            string         `json:"name"`
	TotalPosts      int            `json:"total_posts"`
	TotalEngagement string         `json:"total_engagement"`
	Platforms       []PlatformCard `json:"platforms"`
	Models          []ModelCard    `json:"models"`
	TopPosts        []PostCard     `json:"top_posts"`
	LowPosts        []PostCard     `json:"low_posts"`
	Sections        []ModelSection `json:"sections"`
}

type PlatformCard struct {
	Platform   string `json:"platform"`
	Followers  string `json:"followers"`
	Posts      int    `json:"posts"`
	Engagement string `json:"engagement"`
}

type ModelCard struct {
	Model             string `json:"model"`
	Posts             int    `json:"posts"`
	TotalEngagement   string `json:"total_engagement"`
	AverageEngagement string `json:"average_engagement"`
	EngagementRate    string `json:"engagement_rate"`
	RateBadge         Badge  `json:"rate_badge"`
}

// ModelSection groups a brand's posts by classified model.
type ModelSection struct {
	Model        string     `json:"model"`
	Unclassified bool       `json:"unclassified"`
	Posts        []PostCard `json:"posts"`
	Total        int        `json:"total"`
	Label        string     `json:"label"`
}

type PostCard struct {
	Platform        string     `json:"platform"`
	URL             string     `json:"url,omitempty"`
	Model           string     `json:"model,omitempty"`
	Excerpt         string     `json:"excerpt"`
	Engagement      string     `json:"engagement"`
	Likes           int        `json:"likes"`
	Comments        int        `json:"comments"`
	Shares          int        `json:"shares,omitempty"`
	Date            string     `json:"date,omitempty"`
	Confidence      int        `json:"confidence,omitempty"`
	ConfidenceBadge Badge      `json:"confidence_badge,omitempty"`
	Thumbnails      Thumbnails `json:"thumbnails"`
}

// Thumbnails holds at most four image URLs; Overflow labels the hidden rest.
type Thumbnails struct {
	URLs     []string `json:"urls"`
	Overflow string   `json:"overflow,omitempty"`
}

// BuildBrandCards renders every brand, sorted by name.
func BuildBrandCards(brands map[string]models.BrandResult) []BrandCard {
	names := make([]string, 0, len(brands))
	for name := range brands {
		names = append(names, name)
	}
	sort.Strings(names)

	cards := make([]BrandCard, 0, len(names))
	for _, name := range names {
		cards = append(cards, BuildBrandCard(name, brands[name]))
	}
	return cards
}

func BuildBrandCard(name string, brand models.BrandResult) BrandCard {
	overall := brand.OverallMetrics
	modelNames := sortedModels(overall.ModelBreakdown)

	card := BrandCard{
		Name:            name,
		TotalPosts:      overall.TotalPosts,
		TotalEngagement: FormatCount(overall.TotalEngagement),
		Platforms: []PlatformCard{
			platformCard("instagram", brand.Instagram),
			platformCard("facebook", brand.Facebook),
		},
		Models:   make([]ModelCard, 0, len(modelNames)),
		TopPosts: postCards(brand.TopPosts, listExcerptLen),
		LowPosts: postCards(brand.LowPosts, listExcerptLen),
	}

	for _, model := range modelNames {
		stats := overall.ModelBreakdown[model]
		card.Models = append(card.Models, ModelCard{
			Model:             model,
			Posts:             stats.PostsCount,
			TotalEngagement:   FormatCount(stats.TotalEngagement),
			AverageEngagement: FormatCount(int(math.Round(stats.AverageEngagement))),
			EngagementRate:    strconv.FormatFloat(stats.EngagementRate, 'f', 1, 64) + "%",
			RateBadge:         RateBadge(stats.PostsCount),
		})
	}

	allPosts := make([]models.Post, 0, len(brand.Instagram.Posts)+len(brand.Facebook.Posts))
	allPosts = append(allPosts, brand.Instagram.Posts...)
	allPosts = append(allPosts, brand.Facebook.Posts...)
	card.Sections = BuildModelSections(allPosts, modelNames)

	return card
}

// BuildModelSections groups posts under each model that has any, followed
// by an unclassified group.
func BuildModelSections(posts []models.Post, modelNames []string) []ModelSection {
	sections := []ModelSection{}
	for _, model := range modelNames {
		if IsUnclassified(model) {
			continue
		}
		var matched []models.Post
		for _, p := range posts {
			if p.Model == model {
				matched = append(matched, p)
			}
		}
		if len(matched) > 0 {
			sections = append(sections, modelSection(model, matched, false))
		}
	}

	var unclassified []models.Post
	for _, p := range posts {
		if IsUnclassified(p.Model) {
			unclassified = append(unclassified, p)
		}
	}
	if len(unclassified) > 0 {
		sections = append(sections, modelSection("Unclassified", unclassified, true))
	}
	return sections
}

func modelSection(model string, posts []models.Post, unclassified bool) ModelSection {
	shown := posts
	if len(shown) > maxPostsPerModel {
		shown = shown[:maxPostsPerModel]
	}
	label := fmt.Sprintf("%d posts", len(posts))
	if len(posts) > maxPostsPerModel {
		label = fmt.Sprintf("Showing %d of %d posts", maxPostsPerModel, len(posts))
	}
	return ModelSection{
		Model:        model,
		Unclassified: unclassified,
		Posts:        postCards(shown, sectionExcerptLen),
		Total:        len(posts),
		Label:        label,
	}
}

// IsUnclassified reports whether a post carries no usable model.
func IsUnclassified(model string) bool {
	return model == "" || model == unclassifiedModel
}

// RateBadge grades a model by how many posts mention it.
func RateBadge(postsCount int) Badge {
	switch {
	case postsCount > 5:
		return BadgeHigh
	case postsCount > 2:
		return BadgeMedium
	}
	return BadgeLow
}

// ConfidenceBadge grades a classification confidence percentage.
func ConfidenceBadge(confidence int) Badge {
	switch {
	case confidence >= 80:
		return BadgeHigh
	case confidence >= 50:
		return BadgeMedium
	}
	return BadgeLow
}

func platformCard(platform string, result models.PlatformResult) PlatformCard {
	return PlatformCard{
		Platform:   platform,
		Followers:  FormatCount(result.Profile.Followers),
		Posts:      len(result.Posts),
		Engagement: FormatCount(result.Metrics.TotalEngagement),
	}
}

func postCards(posts []models.Post, excerptLen int) []PostCard {
	cards := make([]PostCard, 0, len(posts))
	for _, p := range posts {
		cards = append(cards, BuildPostCard(p, excerptLen))
	}
	return cards
}

func BuildPostCard(post models.Post, excerptLen int) PostCard {
	card := PostCard{
		Platform:   post.Platform,
		URL:        post.URL,
		Model:      post.Model,
		Excerpt:    Excerpt(post, excerptLen),
		Engagement: FormatCount(post.Engagement),
		Likes:      post.Likes,
		Comments:   post.Comments,
		Shares:     post.Shares,
		Thumbnails: BuildThumbnails(post),
	}
	if t, ok := models.ParseTimestamp(post.Timestamp); ok {
		card.Date = t.Format("2006-01-02")
	}
	if post.ClassificationConfidence > 0 {
		card.Confidence = post.ClassificationConfidence
		card.ConfidenceBadge = ConfidenceBadge(post.ClassificationConfidence)
	}
	return card
}

// Excerpt prefers the caption over the text and cuts at n runes.
func Excerpt(post models.Post, n int) string {
	text := post.Caption
	if text == "" {
		text = post.Text
	}
	if text == "" {
		text = noTextContent
	}
	runes := []rune(text)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return text
}

func BuildThumbnails(post models.Post) Thumbnails {
	urls := post.Thumbnails
	if len(urls) == 0 && post.Thumbnail != "" {
		urls = []string{post.Thumbnail}
	}

	thumbs := Thumbnails{URLs: []string{}}
	for i, u := range urls {
		if i == maxThumbnails {
			break
		}
		thumbs.URLs = append(thumbs.URLs, ProxiedImageURL(u))
	}
	if len(urls) > maxThumbnails {
		thumbs.Overflow = fmt.Sprintf("+%d", len(urls)-3)
	}
	return thumbs
}

var proxiedImageDomains = []string{"cdninstagram.com", "fbcdn.net"}

// IsProxiedImageURL reports whether raw is an http(s) URL on an Instagram
// or Facebook CDN host. Only those are fetched through the image proxy.
func IsProxiedImageURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, domain := range proxiedImageDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// ProxiedImageURL routes Instagram and Facebook CDN images through the
// dashboard's image proxy; other URLs pass unchanged.
func ProxiedImageURL(raw string) string {
	if IsProxiedImageURL(raw) {
		return ImageProxyPath + "?url=" + url.QueryEscape(raw)
	}
	return raw
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func sortedModels(breakdown map[string]models.ModelStats) []string {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
