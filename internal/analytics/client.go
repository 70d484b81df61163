package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"social-analytics-dashboard/internal/models"
)

// ErrEmptyDownload is returned when the backend answers a download with no bytes.
var ErrEmptyDownload = errors.New("downloaded file is empty")

// APIError is a non-2xx answer from the analytics backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return e.Detail
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Download is a report file fetched from the backend.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ListRecentAnalyses returns the backend's job history.
func (c *Client) ListRecentAnalyses(ctx context.Context) ([]models.AnalysisSummary, error) {
	var result []models.AnalysisSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/recent-analyses", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list recent analyses: %w", err)
	}
	return result, nil
}

// StartAnalysis submits one analysis job.
func (c *Client) StartAnalysis(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	var result models.AnalyzeResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/analyze", req, &result); err != nil {
		return nil, fmt.Errorf("failed to start analysis: %w", err)
	}
	return &result, nil
}

// GetAnalysisStatus retrieves the current state of a job.
func (c *Client) GetAnalysisStatus(ctx context.Context, analysisID string) (*models.AnalysisStatus, error) {
	var result models.AnalysisStatus
	if err := c.doJSON(ctx, http.MethodGet, "/api/analysis/"+url.PathEscape(analysisID), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to get analysis status: %w", err)
	}
	if result.AnalysisID == "" {
		result.AnalysisID = analysisID
	}
	return &result, nil
}

// UploadReferenceImages sends one brand/model batch as a multipart form.
func (c *Client) UploadReferenceImages(ctx context.Context, brand, model, analysisID string, images []models.ReferenceImage) (*models.UploadPathsResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := []struct{ name, value string }{
		{"brand", brand},
		{"model", model},
		{"analysis_id", analysisID},
	}
	for _, f := range fields {
		if err := writer.WriteField(f.name, f.value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", f.name, err)
		}
	}

	for _, image := range images {
		part, err := writer.CreatePart(imagePartHeader(image))
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := part.Write(image.Data); err != nil {
			return nil, fmt.Errorf("failed to write form file: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload-reference-images", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result models.UploadPathsResponse
	if err := c.execute(req, &result); err != nil {
		return nil, fmt.Errorf("failed to upload reference images: %w", err)
	}
	return &result, nil
}

// FilterResults asks the backend to recompute a job's results for a time range.
func (c *Client) FilterResults(ctx context.Context, analysisID string, filter models.TimeFilter) (*models.FilterResponse, error) {
	var result models.FilterResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/filter-results/"+url.PathEscape(analysisID), filter, &result); err != nil {
		return nil, fmt.Errorf("failed to filter results: %w", err)
	}
	return &result, nil
}

// DownloadResults fetches the CSV report of a job, optionally scoped to a time range.
func (c *Client) DownloadResults(ctx context.Context, analysisID string, filter *models.TimeFilter) (*Download, error) {
	endpoint := "/api/download/" + url.PathEscape(analysisID)
	if filter != nil {
		filterJSON, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal time filter: %w", err)
		}
		params := url.Values{}
		params.Set("time_filter", string(filterJSON))
		endpoint += "?" + params.Encode()
	}

	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("download failed: %w", newAPIError(resp.StatusCode, body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyDownload
	}

	return &Download{
		Filename:    FilenameFromDisposition(resp.Header.Get("Content-Disposition"), DefaultReportFilename(analysisID)),
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// DeleteAnalysis removes a job and its data on the backend.
func (c *Client) DeleteAnalysis(ctx context.Context, analysisID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/api/analysis/"+url.PathEscape(analysisID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	return nil
}

// ProxyImage fetches a thumbnail through the backend's image proxy.
func (c *Client) ProxyImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	params := url.Values{}
	params.Set("url", imageURL)

	req, err := c.newRequest(ctx, http.MethodGet, "/api/image-proxy?"+params.Encode(), nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("failed to proxy image: %w", newAPIError(resp.StatusCode, data))
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// DefaultReportFilename is used when the backend gives no filename hint.
func DefaultReportFilename(analysisID string) string {
	short := analysisID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("social_media_analysis_%s.csv", short)
}

// FilenameFromDisposition extracts the filename parameter of a
// Content-Disposition header, returning fallback when there is none.
func FilenameFromDisposition(header, fallback string) string {
	if header == "" {
		return fallback
	}
	if _, params, err := mime.ParseMediaType(header); err == nil {
		if name := strings.Trim(params["filename"], `"'`); name != "" {
			return name
		}
	}
	// lenient pass for headers mime rejects, e.g. unquoted names with spaces
	for _, part := range strings.Split(header, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "filename") {
			continue
		}
		if name := strings.Trim(strings.TrimSpace(value), `"'`); name != "" {
			return name
		}
	}
	return fallback
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.execute(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	return req, nil
}

func (c *Client) execute(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}
	return nil
}

// newAPIError prefers the JSON "detail" field and falls back to the status text.
func newAPIError(statusCode int, body []byte) *APIError {
	detail := ""
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var text string
		if err := json.Unmarshal(payload.Detail, &text); err == nil {
			detail = text
		} else if string(payload.Detail) != "null" {
			detail = string(payload.Detail)
		}
	}
	if detail == "" {
		detail = http.StatusText(statusCode)
	}
	if detail == "" {
		detail = fmt.Sprintf("HTTP %d", statusCode)
	}
	return &APIError{StatusCode: statusCode, Detail: detail}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func imagePartHeader(image models.ReferenceImage) textproto.MIMEHeader {
	contentType := image.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(image.Data)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="files"; filename="%s"`, quoteEscaper.Replace(image.Filename)))
	h.Set("Content-Type", contentType)
	return h
}
