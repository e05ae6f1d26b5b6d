package retrieval

// State names a stage in the per-query lifecycle. A query advances through
// the states in order; the failure states are terminal.
type State string

const (
	StateReceived        State = "received"
	StateQueryEmbedded   State = "query_embedded"
	StateSearched        State = "searched"
	StatePromptAssembled State = "prompt_assembled"
	StateGenerated       State = "generated"
	StateAnswered        State = "answered"

	StateEmbeddingFailed State = "embedding_failed"
	StateRateLimited     State = "rate_limited"
)

// Monitor observes query lifecycle transitions. Implementations must be safe
// for concurrent use; queries from different callers overlap.
type Monitor interface {
	QueryState(owner string, state State)
}

type nopMonitor struct{}

func (nopMonitor) QueryState(string, State) {}
