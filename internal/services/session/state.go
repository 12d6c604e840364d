package session

// State represents where the operator is in the order-taking flow
type State string

const (
	StateIdle             State = "idle"
	StateBrowsingCategory State = "browsing_category"
	StateSelectingItems   State = "selecting_items"
)
