package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cv-smart/internal/domain"
)

// Client calls the ai-service that wraps the generative model. Extraction
// turns document images into structured fields; generation produces the
// bilingual resume body and cover-letter text.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient builds a client with a bounded per-request timeout. A stuck
// collaborator call must never stall a stage indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: timeout}}
}

type imagePart struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

func encodeImages(files []domain.File) []imagePart {
	parts := make([]imagePart, 0, len(files))
	for _, f := range files {
		parts = append(parts, imagePart{
			Data:     base64.StdEncoding.EncodeToString(f.Data),
			MimeType: f.ContentType,
		})
	}
	return parts
}

// ExtractPersonalInfo reads identity-document images and returns the fields
// the document carries. Contact fields are never on the document and are
// always returned blank.
func (c *Client) ExtractPersonalInfo(ctx context.Context, files []domain.File) (domain.PersonalInfo, error) {
	req := map[string]interface{}{
		"instructions": personalInfoPrompt,
		"images":       encodeImages(files),
	}
	out, err := c.extract(ctx, req)
	if err != nil {
		return domain.PersonalInfo{}, err
	}

	info := domain.PersonalInfo{
		FullName:    stringField(out, "fullName"),
		Address:     stringField(out, "address"),
		Nationality: stringField(out, "nationality"),
		IDNumber:    stringField(out, "idNumber"),
		BirthDate:   stringField(out, "birthDate"),
		LinkedIn:    stringField(out, "linkedin"),
	}
	if info.FullName == "" {
		return domain.PersonalInfo{}, errors.New("extraction returned no fullName")
	}
	// Contact is collected during review, never from the document.
	info.Phone = ""
	info.Email = ""
	return info, nil
}

// ExtractedDocuments is the batch result for supporting documents. Absent
// fields default to empty slices.
type ExtractedDocuments struct {
	Education  []domain.EducationItem  `json:"education"`
	Experience []domain.ExperienceItem `json:"experience"`
}

// ExtractDocuments submits all supporting documents in one batch call.
func (c *Client) ExtractDocuments(ctx context.Context, files []domain.File) (ExtractedDocuments, error) {
	req := map[string]interface{}{
		"instructions": documentsPrompt,
		"images":       encodeImages(files),
	}
	out, err := c.extract(ctx, req)
	if err != nil {
		return ExtractedDocuments{}, err
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return ExtractedDocuments{}, err
	}
	var docs ExtractedDocuments
	if err := json.Unmarshal(raw, &docs); err != nil {
		return ExtractedDocuments{}, fmt.Errorf("ai-service returned unexpected shape: %w", err)
	}
	if docs.Education == nil {
		docs.Education = []domain.EducationItem{}
	}
	if docs.Experience == nil {
		docs.Experience = []domain.ExperienceItem{}
	}
	return docs, nil
}

// ResumeFacts is the merged profile handed to generation.
type ResumeFacts struct {
	Personal   domain.PersonalInfo     `json:"personal"`
	Education  []domain.EducationItem  `json:"education"`
	Experience []domain.ExperienceItem `json:"experience"`
}

// GenerateResume asks for the bilingual resume body. The raw map is returned
// so the caller can schema-validate before decoding.
func (c *Client) GenerateResume(ctx context.Context, facts ResumeFacts) (map[string]interface{}, error) {
	factsBytes, err := json.Marshal(facts)
	if err != nil {
		return nil, err
	}
	prompt := resumePrompt + "\n\nDados:\n" + string(factsBytes)

	text, err := c.chat(ctx, prompt)
	if err != nil {
		return nil, err
	}

	out, err := decodeJSONObject(text)
	if err != nil {
		return nil, fmt.Errorf("ai-service returned non-json content: %w", err)
	}
	return out, nil
}

// GenerateText runs a free-form prompt and returns the plain text output.
// Used for cover letters.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, prompt)
}

func (c *Client) extract(ctx context.Context, req map[string]interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	resp, err := c.doPostWithRetry(ctx, "/v1/extract", b)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ai-service returned non-200 status: %d", resp.StatusCode)
	}

	var extractResp struct {
		Output string `json:"output"`
	}
	if err := json.Unmarshal(respBytes, &extractResp); err != nil {
		return nil, err
	}
	out, err := decodeJSONObject(extractResp.Output)
	if err != nil {
		return nil, fmt.Errorf("ai-service returned non-json content: %w", err)
	}
	return out, nil
}

func (c *Client) chat(ctx context.Context, prompt string) (string, error) {
	chatReq := map[string]interface{}{
		"agent": "auto",
		"input": prompt,
	}
	b, err := json.Marshal(chatReq)
	if err != nil {
		return "", err
	}

	resp, err := c.doPostWithRetry(ctx, "/v1/chat", b)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai-service returned non-200 status: %d", resp.StatusCode)
	}

	var chatResp struct {
		Agent  string `json:"agent"`
		Output string `json:"output"`
	}
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", err
	}
	return chatResp.Output, nil
}

// doPostWithRetry performs an HTTP POST to the given path with retry/backoff.
func (c *Client) doPostWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
	attempts := 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		// exponential backoff before retrying
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// decodeJSONObject parses s as a JSON object, falling back to extracting the
// outermost {...} when the model wrapped its answer in prose or code fences.
func decodeJSONObject(s string) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s), &out); err == nil {
		return out, nil
	}
	start := -1
	end := -1
	for i, r := range s {
		if r == '{' {
			start = i
			break
		}
	}
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '}' {
			end = i
			break
		}
	}
	if start >= 0 && end > start {
		sub := s[start : end+1]
		if err := json.Unmarshal([]byte(sub), &out); err == nil {
			return out, nil
		}
	}
	return nil, errors.New("no JSON object found in output")
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
