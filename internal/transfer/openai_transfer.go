package transfer

type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ScriptPayload is the structured result the script model is asked to
// return. When the model reply is not valid JSON the caller falls back
// to sentence-boundary splitting of the raw text.
type ScriptPayload struct {
	Hook     string `json:"hook"`
	Content  string `json:"content"`
	CTA      string `json:"cta"`
	Duration int    `json:"duration"`
}
