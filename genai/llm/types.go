package llm

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

func (m MessageRole) String() string {
	return string(m)
}

// Message represents a single chat message sent to a model.
type Message struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// Messages is a convenience alias for a message list.
type Messages []Message

// Append adds a message to the list.
func (m *Messages) Append(msg Message) {
	*m = append(*m, msg)
}

// NewUserMessage creates a message with the user role.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewSystemMessage creates a message with the system role.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewAssistantMessage creates a message with the assistant role.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// GenerateRequest represents a provider-agnostic generation request.
type GenerateRequest struct {
	Messages []Message `json:"messages"`
	Options  *Options  `json:"options,omitempty"`
}

// GenerateResponse represents a complete, non-streamed model response.
type GenerateResponse struct {
	Content string `json:"content"`
	Model   string `json:"model,omitempty"`
	Usage   *Usage `json:"usage,omitempty"`
}

// Usage aggregates token accounting reported by a provider.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}
