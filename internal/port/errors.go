package port

import "errors"

// Sentinel errors used across ports.
var (
	// ErrAIUnavailable means the AI client never initialized (e.g. a missing
	// credential). Recorded once at startup; every call that needs the
	// client fails fast with this error instead of retrying.
	ErrAIUnavailable = errors.New("ai provider unavailable")

	// ErrDocumentNotFound means the document's source path does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrEmbedding wraps a failed embedding request.
	ErrEmbedding = errors.New("embedding request failed")

	// ErrVectorStore wraps a vector database transport or backend failure.
	ErrVectorStore = errors.New("vector store error")

	// ErrQueryRewrite means the history-aware query rewrite failed, so the
	// whole retrieval fails rather than proceeding with an ambiguous query.
	ErrQueryRewrite = errors.New("query rewrite failed")
)
