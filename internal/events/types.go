package events

// Type identifies the kind of UI notification being broadcast.
type Type string

const (
	// TypeCourtUpdated carries the full current placements, sent on every
	// placement change and on each animation tick.
	TypeCourtUpdated Type = "court-updated"
	// TypeListChanged signals that an entity collection changed and lists
	// should re-render. Payload names the entity kind.
	TypeListChanged Type = "list-changed"
	// TypeLoadedItemChanged signals that the item being edited changed.
	TypeLoadedItemChanged Type = "loaded-item-changed"
	// TypeDirtyChanged signals the dirty indicator flipped.
	TypeDirtyChanged Type = "dirty-changed"
	// TypePlaybackChanged signals playback state transitions.
	TypePlaybackChanged Type = "playback-changed"
)

// Event is a fire-and-forget notification to the editing surface. The core
// never depends on a return value from its consumers.
type Event struct {
	Type    Type `json:"type"`
	Payload any  `json:"payload,omitempty"`
}
