package compile

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"pairpad/internal/models"
)

// Client forwards playground code to the remote compile API.
type Client struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewClient(url string, logger *zap.Logger) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Run submits code for compilation and execution. Line endings in the output
// are normalized to LF, and every upstream failure folds into
// {output: "error"} so the editor console always has something to print.
func (c *Client) Run(ctx context.Context, req models.CompileRequest) models.CompileResponse {
	body, err := json.Marshal(req)
	if err != nil {
		return models.CompileResponse{Output: "error"}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return models.CompileResponse{Output: "error"}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("compile API unreachable", zap.Error(err))
		return models.CompileResponse{Output: "error"}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("compile API error", zap.Int("status", resp.StatusCode))
		return models.CompileResponse{Output: "error"}
	}

	var out models.CompileResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Warn("compile API bad response", zap.Error(err))
		return models.CompileResponse{Output: "error"}
	}
	if out.Output == "" {
		out.Output = "error"
	}
	out.Output = strings.ReplaceAll(out.Output, "\r\n", "\n")
	return out
}
