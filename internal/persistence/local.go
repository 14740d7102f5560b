package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtware/courtboard/internal/roster"
	"github.com/vmihailenco/msgpack/v5"
)

// localStore persists entities into a single key-value table in the device's
// SQLite database, one msgpack blob per entity.
type localStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewLocal creates an Adapter backed by the local database.
func NewLocal(db *sql.DB) Adapter {
	return &localStore{db: db}
}

func (s *localStore) GetPlayers(ctx context.Context) ([]roster.Player, error) {
	var players []roster.Player
	err := s.scanKind(ctx, roster.KindPlayer, func(data []byte) error {
		var p roster.Player
		if err := msgpack.Unmarshal(data, &p); err != nil {
			return err
		}
		players = append(players, p)
		return nil
	})
	return players, err
}

func (s *localStore) GetPositions(ctx context.Context) ([]roster.Position, error) {
	var positions []roster.Position
	err := s.scanKind(ctx, roster.KindPosition, func(data []byte) error {
		var p roster.Position
		if err := msgpack.Unmarshal(data, &p); err != nil {
			return err
		}
		positions = append(positions, p)
		return nil
	})
	return positions, err
}

func (s *localStore) GetScenarios(ctx context.Context) ([]roster.Scenario, error) {
	var scenarios []roster.Scenario
	err := s.scanKind(ctx, roster.KindScenario, func(data []byte) error {
		var sc roster.Scenario
		if err := msgpack.Unmarshal(data, &sc); err != nil {
			return err
		}
		scenarios = append(scenarios, sc)
		return nil
	})
	return scenarios, err
}

func (s *localStore) GetSequences(ctx context.Context) ([]roster.Sequence, error) {
	var sequences []roster.Sequence
	err := s.scanKind(ctx, roster.KindSequence, func(data []byte) error {
		var sq roster.Sequence
		if err := msgpack.Unmarshal(data, &sq); err != nil {
			return err
		}
		sq.Normalize()
		sequences = append(sequences, sq)
		return nil
	})
	return sequences, err
}

// scanKind iterates every row of a kind, decoding each blob. Rows that fail
// to decode are logged and skipped rather than failing the whole load.
func (s *localStore) scanKind(ctx context.Context, kind roster.Kind, decode func([]byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, data FROM entities WHERE kind = ?", string(kind))
	if err != nil {
		return fmt.Errorf("failed to query %s entities: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			log.Error("Failed to scan entity row", "error", err, "kind", kind)
			continue
		}
		if err := decode(data); err != nil {
			log.Error("Failed to decode entity blob", "error", err, "kind", kind, "id", id)
		}
	}
	return rows.Err()
}

func (s *localStore) SavePlayer(ctx context.Context, p roster.Player) (roster.Player, error) {
	return p, s.saveEntity(ctx, roster.KindPlayer, p.ID, p)
}

func (s *localStore) SavePosition(ctx context.Context, p roster.Position) (roster.Position, error) {
	return p, s.saveEntity(ctx, roster.KindPosition, p.ID, p)
}

func (s *localStore) SaveScenario(ctx context.Context, sc roster.Scenario) (roster.Scenario, error) {
	return sc, s.saveEntity(ctx, roster.KindScenario, sc.ID, sc)
}

func (s *localStore) SaveSequence(ctx context.Context, sq roster.Sequence) (roster.Sequence, error) {
	sq.Normalize()
	return sq, s.saveEntity(ctx, roster.KindSequence, sq.ID, sq)
}

func (s *localStore) saveEntity(ctx context.Context, kind roster.Kind, id string, entity any) error {
	data, err := msgpack.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", kind, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entities (kind, id, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at;
	`, string(kind), id, data, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save %s %s: %w", kind, id, err)
	}
	log.Debug("Saved entity", "kind", kind, "id", id)
	return nil
}

func (s *localStore) Delete(ctx context.Context, kind roster.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM entities WHERE kind = ? AND id = ?", string(kind), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", kind, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return nil
}

func (s *localStore) LegacyPositions(ctx context.Context) (map[string][]roster.PlayerPlacement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT name, placements_json FROM legacy_positions")
	if err != nil {
		return nil, fmt.Errorf("failed to query legacy positions: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]roster.PlayerPlacement)
	for rows.Next() {
		var name, placementsJSON string
		if err := rows.Scan(&name, &placementsJSON); err != nil {
			log.Error("Failed to scan legacy position row", "error", err)
			continue
		}
		var placements []roster.PlayerPlacement
		if err := json.Unmarshal([]byte(placementsJSON), &placements); err != nil {
			log.Error("Failed to unmarshal legacy placements", "error", err, "name", name)
			continue
		}
		out[name] = placements
	}
	return out, rows.Err()
}
