package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client extracts text from images through an ocr.space-shaped parse API.
type Client struct {
	url    string
	apiKey string
	client *http.Client
	logger *zap.Logger
}

func NewClient(url, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

type parseResult struct {
	ParsedText string `json:"ParsedText"`
}

type parseResponse struct {
	OCRExitCode   int           `json:"OCRExitCode"`
	ParsedResults []parseResult `json:"ParsedResults"`
	ErrorMessage  errorMessage  `json:"ErrorMessage"`
}

// The parse API returns ErrorMessage as either a string or a list of strings.
type errorMessage []string

func (m *errorMessage) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*m = errorMessage{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*m = many
	return nil
}

// ParseImage uploads image bytes and returns the extracted text.
func (c *Client) ParseImage(ctx context.Context, filename string, image io.Reader) (string, error) {
	return c.submit(ctx, func(w *multipart.Writer) error {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return err
		}
		_, err = io.Copy(part, image)
		return err
	})
}

// ParseURL asks the API to fetch and parse a remote image.
func (c *Client) ParseURL(ctx context.Context, imageURL string) (string, error) {
	return c.submit(ctx, func(w *multipart.Writer) error {
		return w.WriteField("url", imageURL)
	})
}

func (c *Client) submit(ctx context.Context, addSource func(*multipart.Writer) error) (string, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	fields := map[string]string{
		"apikey":            c.apiKey,
		"isOverlayRequired": "false",
		"detectOrientation": "true",
		"scale":             "true",
		"OCREngine":         "2",
	}
	for k, v := range fields {
		if err := form.WriteField(k, v); err != nil {
			return "", fmt.Errorf("build OCR form: %w", err)
		}
	}
	if err := addSource(form); err != nil {
		return "", fmt.Errorf("build OCR form: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("build OCR form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call OCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("OCR API returned status %d", resp.StatusCode)
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode OCR response: %w", err)
	}

	if parsed.OCRExitCode != 1 {
		msg := strings.Join(parsed.ErrorMessage, "; ")
		if msg == "" {
			msg = "failed to process the image"
		}
		c.logger.Warn("OCR parse failed", zap.Int("exitCode", parsed.OCRExitCode), zap.String("message", msg))
		return "", fmt.Errorf("OCR failed: %s", msg)
	}

	texts := make([]string, 0, len(parsed.ParsedResults))
	for _, r := range parsed.ParsedResults {
		texts = append(texts, r.ParsedText)
	}
	return strings.Join(texts, "\n"), nil
}
