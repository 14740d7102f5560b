package playback

// State labels the per-step playback machine. Each play request walks
// Idle -> Loading -> Animating -> Idle; a request arriving while another
// step is animating is rejected, never queued.
type State string

const (
	StateIdle      State = "idle"
	StateLoading   State = "loading"
	StateAnimating State = "animating"
)

// Cursor tracks progress through a sequence. Step is the index of the item
// most recently played.
type Cursor struct {
	SequenceID string `json:"sequenceId"`
	Step       int    `json:"step"`
}
