// Package history provides the bounded conversation log fed into model
// context, plus the session store that owns one log per conversation.
package history

// Role identifies who produced a conversation turn.
type Role string

// Conversation roles. These match the wire roles of both remote tiers.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one conversational exchange half.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DefaultCapacity is the ring capacity used when none is configured.
const DefaultCapacity = 10

// Ring is a fixed-capacity FIFO log of conversation turns. Appending
// beyond capacity evicts the oldest turn.
//
// Ring is not safe for concurrent use. The orchestrator's single
// in-flight-query discipline guarantees a single writer per session; if
// that invariant ever changes, mutation must be serialized to keep
// append order matching conversational turn order.
type Ring struct {
	capacity int
	turns    []Turn
}

// NewRing creates a ring holding at most capacity turns.
// Non-positive capacities fall back to DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{
		capacity: capacity,
		turns:    make([]Turn, 0, capacity),
	}
}

// Append pushes a turn to the tail, evicting the head when full.
// Amortized O(1).
func (r *Ring) Append(role Role, content string) {
	if len(r.turns) == r.capacity {
		copy(r.turns, r.turns[1:])
		r.turns = r.turns[:len(r.turns)-1]
	}
	r.turns = append(r.turns, Turn{Role: role, Content: content})
}

// RecentWindow returns the last n turns in chronological order. The model
// context window (last 5) is smaller than the retention capacity (10).
// The returned slice is a copy and safe to hold across appends.
func (r *Ring) RecentWindow(n int) []Turn {
	if n <= 0 || len(r.turns) == 0 {
		return nil
	}
	if n > len(r.turns) {
		n = len(r.turns)
	}
	window := make([]Turn, n)
	copy(window, r.turns[len(r.turns)-n:])
	return window
}

// Len returns the number of retained turns.
func (r *Ring) Len() int {
	return len(r.turns)
}

// Capacity returns the maximum number of retained turns.
func (r *Ring) Capacity() int {
	return r.capacity
}

// Reset drops all retained turns.
func (r *Ring) Reset() {
	r.turns = r.turns[:0]
}
