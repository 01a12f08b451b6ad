package prompt

import (
	"github.com/askaron/docsmith/internal/model/contract"
)

// SystemInstruction steers every completion toward ready-to-send documents.
// It is fixed and not configurable: the bot's one job is turning a request
// into a finished document, text, or pipe-and-dash Markdown table.
const SystemInstruction = "You are a highly qualified AI agent for creating documents and data. " +
	"Your task is to analyze the user's request and produce a ready document, text, or table. " +
	"If the user describes data (lists, figures, comparisons), generate a table using " +
	"strict Markdown format (vertical pipes | and dashes -). " +
	"Respond with only the generated content."

// Compose builds a completion request from raw user text. Composition is pure
// and total: any string is accepted, including empty, and the text is carried
// verbatim. The relay fills in the model identifier.
func Compose(userText string) contract.CompletionRequest {
	return contract.CompletionRequest{
		Messages: []contract.Message{
			{Role: contract.RoleSystem, Content: SystemInstruction},
			{Role: contract.RoleUser, Content: userText},
		},
	}
}
