package dto

// OllamaGenerateRequest is the request body for Ollama /api/generate.
type OllamaGenerateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

// OllamaGenerateResponse is the non-streaming response from Ollama.
type OllamaGenerateResponse struct {
	Model     string `json:"model"`
	Response  string `json:"response"`
	Done      bool   `json:"done"`
	EvalCount int    `json:"eval_count,omitempty"`
}

// OllamaTagsResponse lists the models an Ollama server has available.
type OllamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// GeminiAPIRequest is the request body for the Gemini generateContent API.
type GeminiAPIRequest struct {
	Contents []Content `json:"contents"`
}

// Content is a single message in a Gemini request.
type Content struct {
	Parts []Part `json:"parts"`
}

// Part is one text fragment of a Gemini message.
type Part struct {
	Text string `json:"text"`
}

// GeminiAPIResponse is the response body from the Gemini generateContent API.
type GeminiAPIResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
