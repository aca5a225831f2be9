// Package media talks to the image host: uploads, deletions, and folder
// listings, with request signing per its API contract.
package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atelierhq/atelier-api/internal/config"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

// incoming images are capped to a sane web size at upload time
const uploadTransformation = "c_limit,w_2000,h_2000,q_85,f_auto"

type Client struct {
	cloudName  string
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewClient(cfg config.MediaConfig) *Client {
	return &Client{
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		now:        time.Now,
	}
}

// Configured reports whether credentials are present. Upload endpoints
// refuse work when they aren't, rather than failing deep in a request.
func (c *Client) Configured() bool {
	return c.cloudName != "" && c.apiKey != "" && c.apiSecret != ""
}

type UploadResult struct {
	PublicID  string `json:"public_id"`
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Bytes     int64  `json:"bytes"`
	Format    string `json:"format"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends a base64 data URI (or remote URL) to the host, placing the
// asset in folder and applying the standard size cap.
func (c *Client) Upload(ctx context.Context, file, folder string) (*UploadResult, error) {
	params := map[string]string{
		"folder":         folder,
		"timestamp":      strconv.FormatInt(c.now().Unix(), 10),
		"transformation": uploadTransformation,
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("file", file)
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	var result UploadResult
	if err := c.post(ctx, "/image/upload", form, &result); err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	return &result, nil
}

// Destroy removes an asset by public id. It returns false when the host has
// no such asset.
func (c *Client) Destroy(ctx context.Context, publicID string) (bool, error) {
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	var result struct {
		Result string `json:"result"`
	}
	if err := c.post(ctx, "/image/destroy", form, &result); err != nil {
		return false, fmt.Errorf("destroy failed: %w", err)
	}
	return result.Result == "ok", nil
}

// ListByFolder returns the host's view of a folder, for reconciling against
// stored metadata.
func (c *Client) ListByFolder(ctx context.Context, folder string) ([]UploadResult, error) {
	endpoint := fmt.Sprintf("%s/%s/resources/image/upload?prefix=%s&max_results=500",
		c.baseURL, c.cloudName, url.QueryEscape(folder+"/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list failed: status %d", resp.StatusCode)
	}

	var result struct {
		Resources []UploadResult `json:"resources"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("list failed: %w", err)
	}
	return result.Resources, nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values, out any) error {
	endpoint := c.baseURL + "/" + c.cloudName + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// sign produces the request signature: sha1 over the sorted params plus the
// api secret. The file payload and api key are never part of the signature.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

// Folder builds the canonical storage folder for a tenant scope, e.g.
// "atelier/river-house/projects".
func Folder(tenantSlug, folder string) string {
	if tenantSlug == "" {
		tenantSlug = "super-admin"
	}
	return fmt.Sprintf("atelier/%s/%s", tenantSlug, folder)
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// ExtractPublicID recovers the host public id from a delivery URL, skipping
// transformation and version path segments and stripping the format
// extension. It returns "" when the URL has no upload path segment.
func ExtractPublicID(deliveryURL string) string {
	idx := strings.Index(deliveryURL, "/upload/")
	if idx == -1 {
		return ""
	}
	parts := strings.Split(deliveryURL[idx+len("/upload/"):], "/")

	// Transformation chains ("c_limit,w_2000") and the version marker
	// ("v1712345678") precede the public id.
	for len(parts) > 1 && (strings.Contains(parts[0], ",") || versionSegment.MatchString(parts[0])) {
		parts = parts[1:]
	}
	if len(parts) == 0 || parts[0] == "" {
		return ""
	}

	last := parts[len(parts)-1]
	if dot := strings.LastIndex(last, "."); dot > 0 {
		parts[len(parts)-1] = last[:dot]
	}
	return strings.Join(parts, "/")
}
