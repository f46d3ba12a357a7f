package transcript

import "context"

// Indexer receives stored transcript lines for semantic recall.
// IndexEntry runs off the request path; implementations log their own
// failures. ForgetSession runs before the rows are deleted so the
// implementation can still resolve which entries a session held.
type Indexer interface {
	IndexEntry(entry *Entry)
	ForgetSession(ctx context.Context, sessionID string)
}
