package models

// BrandConfigIn is the per-brand value of brands_config in POST /api/analyze.
type BrandConfigIn struct {
	InstagramURL string   `json:"instagram_url"`
	FacebookURL  string   `json:"facebook_url"`
	Keywords     []string `json:"keywords"`
}

// UploadResult maps brand -> model -> storage paths assigned by the backend.
type UploadResult map[string]map[string][]string

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	BrandsConfig    map[string]BrandConfigIn `json:"brands_config"`
	ReferenceImages UploadResult             `json:"reference_images"`
}

// ReferenceImage is one user-supplied example image.
type ReferenceImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BrandInput is a brand configuration as entered on the dashboard.
type BrandInput struct {
	Name         string   `json:"name" yaml:"name" example:"Acme"`
	InstagramURL string   `json:"instagram_url" yaml:"instagram_url" example:"https://instagram.com/acme"`
	FacebookURL  string   `json:"facebook_url" yaml:"facebook_url" example:"https://facebook.com/acme"`
	Keywords     []string `json:"keywords" yaml:"keywords"`
}

type StartAnalysisRequest struct {
	Brands []BrandInput `json:"brands"`
}

// DateRangeRequest carries calendar dates in YYYY-MM-DD form.
type DateRangeRequest struct {
	StartDate string `json:"start_date" form:"start_date" example:"2025-01-01"`
	EndDate   string `json:"end_date" form:"end_date" example:"2025-03-31"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
