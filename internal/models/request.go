package models

// ErrorResponse is the JSON error body for the REST endpoints. It implements
// error so request validators can return it directly.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string { return e.Code + ": " + e.Message }

// Lang identifies a compile target understood by the remote compile API.
type Lang string

const (
	LangCPP  Lang = "cpp"
	LangJava Lang = "java"
	LangPy   Lang = "py"
)

func (l Lang) Valid() bool {
	switch l {
	case LangCPP, LangJava, LangPy:
		return true
	}
	return false
}

// CompileRequest is forwarded verbatim to the remote compile API.
type CompileRequest struct {
	Code  string `json:"code"`
	Input string `json:"input"`
	Lang  Lang   `json:"lang"`
}

func (r *CompileRequest) Validate() error {
	if r.Code == "" {
		return &ErrorResponse{Code: "missing_code", Message: "code is required"}
	}
	if !r.Lang.Valid() {
		return &ErrorResponse{Code: "unsupported_lang", Message: "lang must be cpp, java or py"}
	}
	return nil
}

type CompileResponse struct {
	Output string `json:"output"`
}

// OCRURLRequest asks the OCR service to fetch and parse a remote image.
type OCRURLRequest struct {
	URL string `json:"url"`
}

func (r *OCRURLRequest) Validate() error {
	if r.URL == "" {
		return &ErrorResponse{Code: "missing_url", Message: "url is required"}
	}
	return nil
}

type OCRResponse struct {
	Text string `json:"text"`
}

// ExplainRequest asks the generative-text provider to walk through a program
// and its captured output.
type ExplainRequest struct {
	Code      string `json:"code"`
	Lang      Lang   `json:"lang"`
	Output    string `json:"output,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func (r *ExplainRequest) Validate() error {
	if r.Code == "" {
		return &ErrorResponse{Code: "missing_code", Message: "code is required"}
	}
	if !r.Lang.Valid() {
		return &ErrorResponse{Code: "unsupported_lang", Message: "lang must be cpp, java or py"}
	}
	return nil
}

// CorrectRequest asks the provider for a compiler-ready corrected version of
// the submitted code, with no surrounding prose.
type CorrectRequest struct {
	Code      string `json:"code"`
	Lang      Lang   `json:"lang"`
	RequestID string `json:"requestId,omitempty"`
}

func (r *CorrectRequest) Validate() error {
	if !r.Lang.Valid() {
		return &ErrorResponse{Code: "unsupported_lang", Message: "lang must be cpp, java or py"}
	}
	return nil
}

type GenerationMetadata struct {
	ProcessingTimeMS int64  `json:"processingTimeMs"`
	Provider         string `json:"provider"`
	Model            string `json:"model"`
}

type ExplainResponse struct {
	Explanation string             `json:"explanation"`
	RequestID   string             `json:"requestId"`
	Metadata    GenerationMetadata `json:"metadata"`
}

type CorrectResponse struct {
	Code      string             `json:"code"`
	RequestID string             `json:"requestId"`
	Metadata  GenerationMetadata `json:"metadata"`
}
