package assets

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"gym-membership-platform/internal/domain/model"
	"gym-membership-platform/internal/domain/ports/adapter"
)

var _ adapter.AssetStore = (*CloudinaryStore)(nil)

// CloudinaryStore implements AssetStore against the Cloudinary upload API
// using signed requests.
type CloudinaryStore struct {
	cloudName string
	apiKey    string
	apiSecret string
	baseURL   string
	client    *http.Client
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) *CloudinaryStore {
	return &CloudinaryStore{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   "https://api.cloudinary.com/v1_1",
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

type destroyResponse struct {
	Result string `json:"result"`
}

// sign computes the request signature: SHA-1 over the sorted form fields
// (excluding file and api_key) concatenated with the API secret.
func (s *CloudinaryStore) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(parts, "&") + s.apiSecret))
	return hex.EncodeToString(sum[:])
}

func (s *CloudinaryStore) Upload(ctx context.Context, content []byte, folder string) (model.AssetRef, error) {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"folder":    folder,
		"timestamp": timestamp,
	}
	signature := s.sign(params)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "upload")
	if err != nil {
		return model.AssetRef{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := fw.Write(content); err != nil {
		return model.AssetRef{}, fmt.Errorf("failed to build multipart body: %w", err)
	}
	for k, v := range params {
		if err := w.WriteField(k, v); err != nil {
			return model.AssetRef{}, fmt.Errorf("failed to build multipart body: %w", err)
		}
	}
	w.WriteField("api_key", s.apiKey)
	w.WriteField("signature", signature)
	if err := w.Close(); err != nil {
		return model.AssetRef{}, fmt.Errorf("failed to build multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/image/upload", s.baseURL, s.cloudName)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, &buf)
	if err != nil {
		return model.AssetRef{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return model.AssetRef{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.AssetRef{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var response uploadResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return model.AssetRef{}, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}
	if resp.StatusCode != http.StatusOK || response.PublicID == "" {
		return model.AssetRef{}, fmt.Errorf("cloudinary upload failed: status %d, message: %s", resp.StatusCode, response.Error.Message)
	}

	return model.AssetRef{URL: response.SecureURL, Handle: response.PublicID}, nil
}

// Delete destroys an asset by its public id. A "not found" result reports
// success so a retried deletion run converges.
func (s *CloudinaryStore) Delete(ctx context.Context, handle string) error {
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": handle,
		"timestamp": timestamp,
	}
	signature := s.sign(params)

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", s.apiKey)
	form.Set("signature", signature)

	endpoint := fmt.Sprintf("%s/%s/image/destroy", s.baseURL, s.cloudName)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var response destroyResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	switch response.Result {
	case "ok", "not found":
		return nil
	default:
		return fmt.Errorf("cloudinary destroy failed: result %q", response.Result)
	}
}
