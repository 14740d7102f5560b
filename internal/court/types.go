package court

import "errors"

// ErrAnimationInProgress is returned when a transition is requested while
// another one is still running. Requests are rejected, never queued.
var ErrAnimationInProgress = errors.New("animation already in progress")

// Placement is a player token's live coordinate on the editing surface.
type Placement struct {
	PlayerID string  `json:"playerId"`
	Jersey   string  `json:"jersey"`
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// ItemType tags what kind of entity is loaded into the editor.
type ItemType string

const (
	ItemPosition ItemType = "position"
	ItemScenario ItemType = "scenario"
	ItemSequence ItemType = "sequence"
)

// LoadedItem identifies what is currently being edited. Nil means a blank
// court.
type LoadedItem struct {
	Type ItemType `json:"type"`
	ID   string   `json:"id"`
	Name string   `json:"name"`
}
