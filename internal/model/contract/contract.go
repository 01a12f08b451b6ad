package contract

// Roles accepted by the completion endpoint.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the wire shape sent to the completion endpoint.
// Messages always hold one system instruction followed by the user request,
// in that order.
type CompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// CompletionResponse carries the generated text. Only the first choice's
// message content is consumed from the provider response.
type CompletionResponse struct {
	Content string `json:"content"`
}
