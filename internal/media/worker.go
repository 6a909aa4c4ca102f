package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/iamhollywoodpro/strivetrack/internal/constants"
)

// WorkerBackend is the primary tier: an object-storage worker exposing
// GET /health and multipart POST /upload.
type WorkerBackend struct {
	baseURL string
	userID  string
	client  *http.Client
}

func NewWorkerBackend(baseURL, userID string, client *http.Client) *WorkerBackend {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &WorkerBackend{baseURL: strings.TrimRight(baseURL, "/"), userID: userID, client: client}
}

func (w *WorkerBackend) Tier() constants.StorageTier { return constants.TierPrimary }

func (w *WorkerBackend) HealthCheck(ctx context.Context) error {
	if w.baseURL == "" {
		return fmt.Errorf("worker URL not configured: %w", ErrNotReady)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	res, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return fmt.Errorf("invalid health response: %w", err)
	}
	if res.StatusCode != http.StatusOK || body.Status != "healthy" {
		return fmt.Errorf("worker unhealthy (status %d, %q): %w", res.StatusCode, body.Status, ErrNotReady)
	}
	return nil
}

func (w *WorkerBackend) Upload(ctx context.Context, f File, dir, name string) (Descriptor, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", contentType(f))
	part, err := mw.CreatePart(h)
	if err != nil {
		return Descriptor{}, err
	}
	if _, err := part.Write(f.Data); err != nil {
		return Descriptor{}, err
	}
	userID := w.userID
	if userID == "" {
		userID = "anonymous"
	}
	for k, v := range map[string]string{"path": dir, "userId": userID} {
		if err := mw.WriteField(k, v); err != nil {
			return Descriptor{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return Descriptor{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/upload", &buf)
	if err != nil {
		return Descriptor{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := w.client.Do(req)
	if err != nil {
		return Descriptor{}, fmt.Errorf("worker upload failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return Descriptor{}, fmt.Errorf("worker upload failed: %s", strings.TrimSpace(string(msg)))
	}
	var body struct {
		URL string `json:"url"`
		Key string `json:"key"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return Descriptor{}, fmt.Errorf("invalid upload response: %w", err)
	}
	return Descriptor{
		URL:         body.URL,
		Path:        body.Key,
		StorageTier: w.Tier(),
		Size:        f.Size(),
		Type:        f.ContentType,
	}, nil
}

func contentType(f File) string {
	if f.ContentType != "" {
		return f.ContentType
	}
	return http.DetectContentType(f.Data)
}
