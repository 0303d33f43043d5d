package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pairpad/internal/compile"
	"pairpad/internal/llm"
	"pairpad/internal/middleware"
	"pairpad/internal/models"
	"pairpad/internal/ocr"
	"pairpad/internal/prompts"
	"pairpad/internal/session"
	"pairpad/internal/utils"
)

type Handlers struct {
	logger   *zap.Logger
	store    *session.Store
	compiler *compile.Client
	ocr      *ocr.Client
	provider llm.Provider // nil when no generative-text backend is configured
	prompts  *prompts.Manager
}

func NewHandlers(logger *zap.Logger, store *session.Store, compiler *compile.Client, ocrClient *ocr.Client, provider llm.Provider, promptManager *prompts.Manager) *Handlers {
	return &Handlers{
		logger:   logger,
		store:    store,
		compiler: compiler,
		ocr:      ocrClient,
		provider: provider,
		prompts:  promptManager,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

// Compile forwards the playground buffer to the remote compile API. Failures
// come back as {output: "error"} with status 200; the client prints whatever
// lands in output.
func (h *Handlers) Compile(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CompileRequest](r)
	out := h.compiler.Run(r.Context(), *req)
	utils.JSON(w, http.StatusOK, out)
}

// OCR accepts either a multipart image upload (field "file") or a JSON body
// with a url, mirroring the two client flows.
func (h *Handlers) OCR(w http.ResponseWriter, r *http.Request) {
	var (
		text string
		err  error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, formErr := r.FormFile("file")
		if formErr != nil {
			utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
				Code:    "missing_file",
				Message: "multipart field 'file' is required",
			})
			return
		}
		defer file.Close()
		text, err = h.ocr.ParseImage(r.Context(), header.Filename, file)
	} else {
		var req models.OCRURLRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
				Code:    "invalid_json",
				Message: "Invalid JSON in request body",
			})
			return
		}
		if valErr := req.Validate(); valErr != nil {
			utils.JSON(w, http.StatusBadRequest, valErr)
			return
		}
		text, err = h.ocr.ParseURL(r.Context(), req.URL)
	}

	if err != nil {
		h.logger.Error("OCR request failed", zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "ocr_error",
			Message: "Failed to extract text from image",
		})
		return
	}
	utils.JSON(w, http.StatusOK, models.OCRResponse{Text: text})
}

// Explain asks the generative-text provider to walk through code and output.
func (h *Handlers) Explain(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ExplainRequest](r)
	req.RequestID = ensureRequestID(req.RequestID)

	text, meta, ok := h.generate(w, r, "explain", map[string]string{
		"Language": string(req.Lang),
		"Code":     req.Code,
		"Output":   req.Output,
	}, req.RequestID)
	if !ok {
		return
	}

	utils.JSON(w, http.StatusOK, models.ExplainResponse{
		Explanation: text,
		RequestID:   req.RequestID,
		Metadata:    meta,
	})
}

// Correct asks the provider for a compiler-ready corrected buffer.
func (h *Handlers) Correct(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.CorrectRequest](r)
	req.RequestID = ensureRequestID(req.RequestID)

	text, meta, ok := h.generate(w, r, "correct", map[string]string{
		"Language": string(req.Lang),
		"Code":     req.Code,
	}, req.RequestID)
	if !ok {
		return
	}

	utils.JSON(w, http.StatusOK, models.CorrectResponse{
		Code:      utils.StripFences(text),
		RequestID: req.RequestID,
		Metadata:  meta,
	})
}

// generate runs the shared prompt-build/provider-call flow. It writes the
// error response itself and returns ok=false when the caller should stop.
func (h *Handlers) generate(w http.ResponseWriter, r *http.Request, mode string, vars map[string]string, requestID string) (string, models.GenerationMetadata, bool) {
	if h.provider == nil {
		utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    "ai_unavailable",
			Message: "No generative-text provider is configured",
		})
		return "", models.GenerationMetadata{}, false
	}

	prompt, err := h.prompts.Build(mode, vars)
	if err != nil {
		h.logger.Error("failed to build prompt", zap.Error(err), zap.String("request_id", requestID))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "prompt_error",
			Message: "Failed to build AI prompt",
		})
		return "", models.GenerationMetadata{}, false
	}

	start := time.Now()
	text, err := h.provider.Generate(r.Context(), prompt)
	if err != nil {
		h.logger.Error("AI provider error", zap.Error(err), zap.String("request_id", requestID))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "ai_error",
			Message: "Failed to generate " + mode + " response",
		})
		return "", models.GenerationMetadata{}, false
	}

	meta := models.GenerationMetadata{
		ProcessingTimeMS: time.Since(start).Milliseconds(),
		Provider:         h.provider.Name(),
		Model:            h.provider.Model(),
	}
	return text, meta, true
}

func ensureRequestID(requestID string) string {
	if requestID == "" {
		return uuid.NewString()
	}
	return requestID
}
