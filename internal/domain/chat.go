package domain

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is a single role-tagged message. An ordered slice of these
// forms conversation history, supplied fresh on every request.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnswerSource tells how an Answer was produced, so callers and tests can
// distinguish a generated answer from the fixed fallbacks without string
// matching.
type AnswerSource string

const (
	AnswerGenerated        AnswerSource = "generated"
	AnswerNoContext        AnswerSource = "no_context"
	AnswerRetrievalFailed  AnswerSource = "retrieval_failed"
	AnswerGenerationFailed AnswerSource = "generation_failed"
)

// Answer is the result of the conversational RAG path. It always carries
// some text; failures surface as a fallback Source, never as an error.
type Answer struct {
	Text   string       `json:"text"`
	Source AnswerSource `json:"source"`
}
