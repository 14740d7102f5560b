package roster

// Store defines the interface for the session's canonical entity collections.
// All mutations are synchronous and in-memory; persisting them is a separate,
// explicit step performed by callers.
type Store interface {
	Players() []Player
	Positions() []Position
	Scenarios() []Scenario
	Sequences() []Sequence

	GetPlayer(id string) (Player, bool)
	GetPosition(id string) (Position, bool)
	GetScenario(id string) (Scenario, bool)
	GetSequence(id string) (Sequence, bool)

	UpsertPlayer(p Player) (Player, error)
	UpsertPosition(p Position) (Position, error)
	UpsertScenario(s Scenario) (Scenario, error)
	UpsertSequence(s Sequence) (Sequence, error)

	// Remove deletes an entity and runs a referential-integrity pass over
	// every collection that may reference its id. It reports the entities
	// that were modified or removed by the cascade so callers can persist
	// them.
	Remove(kind Kind, id string) (CascadeResult, error)

	// Hydrate replaces all collections at once, normalizing legacy
	// sequence shapes. Used when loading from the persistence adapter.
	Hydrate(players []Player, positions []Position, scenarios []Scenario, sequences []Sequence)

	Clear()
}
