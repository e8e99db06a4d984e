package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

const defaultBaseURL = "https://api.cloudinary.com"

// CloudinaryRepository talks to the Cloudinary API. Server-side only destroy
// and the lookbook listing are needed; uploads happen from the admin
// dashboard directly.
type CloudinaryRepository struct {
	cloudinaryConfig CloudinaryConfig
	httpClient       *http.Client
	baseURL          string
}

func NewCloudinaryRepository(cfg CloudinaryConfig) *CloudinaryRepository {
	return &CloudinaryRepository{
		cloudinaryConfig: cfg,
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		baseURL:          defaultBaseURL,
	}
}

type destroyResponse struct {
	Result string `json:"result"`
}

// Destroy removes one image by public id. Cloudinary answers result:"ok" for
// deletions and result:"not found" for unknown ids; the latter is treated as
// success so retries stay harmless.
func (r *CloudinaryRepository) Destroy(publicID string) error {
	endpoint := fmt.Sprintf("%s/v1_1/%s/image/destroy", r.baseURL, r.cloudinaryConfig.CloudName)

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := r.sign("public_id=" + publicID + "&timestamp=" + timestamp)

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", r.cloudinaryConfig.APIKey)
	form.Set("signature", signature)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build destroy request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("destroy request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read destroy response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("destroy returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed destroyResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to decode destroy response: %w", err)
	}

	if parsed.Result != "ok" && parsed.Result != "not found" {
		return fmt.Errorf("destroy rejected for %s: %s", publicID, parsed.Result)
	}

	return nil
}

type listResponse struct {
	Resources []struct {
		SecureURL string `json:"secure_url"`
	} `json:"resources"`
	NextCursor string `json:"next_cursor"`
}

// List returns the secure URLs of uploaded images under a folder prefix, one
// Admin API page (100) at a time. The returned cursor is empty on the last
// page.
func (r *CloudinaryRepository) List(ctx context.Context, prefix, cursor string) ([]string, string, error) {
	endpoint := fmt.Sprintf("%s/v1_1/%s/resources/image/upload", r.baseURL, r.cloudinaryConfig.CloudName)

	query := url.Values{}
	query.Set("max_results", "100")
	if prefix != "" {
		query.Set("prefix", prefix)
	}
	if cursor != "" {
		query.Set("next_cursor", cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build list request: %w", err)
	}
	req.SetBasicAuth(r.cloudinaryConfig.APIKey, r.cloudinaryConfig.APISecret)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read list response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("list returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed listResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, "", fmt.Errorf("failed to decode list response: %w", err)
	}

	urls := make([]string, 0, len(parsed.Resources))
	for _, res := range parsed.Resources {
		urls = append(urls, res.SecureURL)
	}

	return urls, parsed.NextCursor, nil
}

func (r *CloudinaryRepository) sign(params string) string {
	sum := sha1.Sum([]byte(params + r.cloudinaryConfig.APISecret))
	return hex.EncodeToString(sum[:])
}
