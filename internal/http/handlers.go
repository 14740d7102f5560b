package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/courtware/courtboard/internal/court"
	"github.com/courtware/courtboard/internal/events"
	"github.com/courtware/courtboard/internal/persistence"
	"github.com/courtware/courtboard/internal/roster"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear the session")
		s.Store.Clear()
		s.Session.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}

// persistFailed reports a persistence failure to the caller. The in-memory
// mutation is kept; the session is now ahead of the system of record until
// the next successful save.
func (s *Server) persistFailed(w http.ResponseWriter, kind roster.Kind, err error) {
	s.Metrics.IncPersistenceFailures()
	log.Error("Failed to persist entity", "kind", kind, "error", err)
	http.Error(w, "Saved in this session but not persisted", http.StatusBadGateway)
}

func (s *Server) PlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, s.Store.Players())
		case http.MethodPost:
			var p roster.Player
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			saved, err := s.Store.UpsertPlayer(p)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if !isDryRunFromContext(r) {
				if _, err := s.Adapter.SavePlayer(r.Context(), saved); err != nil {
					s.persistFailed(w, roster.KindPlayer, err)
					return
				}
			}
			s.Bus.Publish(events.Event{Type: events.TypeListChanged, Payload: roster.KindPlayer})
			writeJSON(w, http.StatusOK, saved)
		case http.MethodDelete:
			s.removeEntity(w, r, roster.KindPlayer)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) PositionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, s.Store.Positions())
		case http.MethodPost:
			var p roster.Position
			if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			saved, err := s.Store.UpsertPosition(p)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if !isDryRunFromContext(r) {
				if _, err := s.Adapter.SavePosition(r.Context(), saved); err != nil {
					s.persistFailed(w, roster.KindPosition, err)
					return
				}
			}
			s.Bus.Publish(events.Event{Type: events.TypeListChanged, Payload: roster.KindPosition})
			writeJSON(w, http.StatusOK, saved)
		case http.MethodDelete:
			s.removeEntity(w, r, roster.KindPosition)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) ScenariosHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, s.Store.Scenarios())
		case http.MethodPost:
			var sc roster.Scenario
			if err := json.NewDecoder(r.Body).Decode(&sc); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			saved, err := s.Store.UpsertScenario(sc)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if !isDryRunFromContext(r) {
				if _, err := s.Adapter.SaveScenario(r.Context(), saved); err != nil {
					s.persistFailed(w, roster.KindScenario, err)
					return
				}
			}
			s.Bus.Publish(events.Event{Type: events.TypeListChanged, Payload: roster.KindScenario})
			writeJSON(w, http.StatusOK, saved)
		case http.MethodDelete:
			s.removeEntity(w, r, roster.KindScenario)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func (s *Server) SequencesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, s.Store.Sequences())
		case http.MethodPost:
			var seq roster.Sequence
			if err := json.NewDecoder(r.Body).Decode(&seq); err != nil {
				http.Error(w, "Invalid JSON", http.StatusBadRequest)
				return
			}
			saved, err := s.Store.UpsertSequence(seq)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if !isDryRunFromContext(r) {
				if _, err := s.Adapter.SaveSequence(r.Context(), saved); err != nil {
					s.persistFailed(w, roster.KindSequence, err)
					return
				}
			}
			s.Bus.Publish(events.Event{Type: events.TypeListChanged, Payload: roster.KindSequence})
			writeJSON(w, http.StatusOK, saved)
		case http.MethodDelete:
			s.removeEntity(w, r, roster.KindSequence)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// removeEntity deletes an entity and persists the whole cascade. Persistence
// is best-effort: a failed write is logged and counted, the remaining
// cascade writes still run.
func (s *Server) removeEntity(w http.ResponseWriter, r *http.Request, kind roster.Kind) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
		return
	}

	result, err := s.Store.Remove(kind, id)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if kind == roster.KindPlayer {
		s.Session.RemovePlayer(id)
	}

	if !isDryRunFromContext(r) {
		ctx := r.Context()
		if err := s.Adapter.Delete(ctx, kind, id); err != nil && !errors.Is(err, persistence.ErrNotFound) {
			s.Metrics.IncPersistenceFailures()
			log.Error("Failed to delete entity from persistence", "kind", kind, "id", id, "error", err)
		}
		for _, p := range result.UpdatedPositions {
			if _, err := s.Adapter.SavePosition(ctx, p); err != nil {
				s.Metrics.IncPersistenceFailures()
				log.Error("Failed to persist cascaded position", "id", p.ID, "error", err)
			}
		}
		for _, seq := range result.UpdatedSequences {
			if _, err := s.Adapter.SaveSequence(ctx, seq); err != nil {
				s.Metrics.IncPersistenceFailures()
				log.Error("Failed to persist cascaded sequence", "id", seq.ID, "error", err)
			}
		}
		for _, scID := range result.RemovedScenarios {
			if err := s.Adapter.Delete(ctx, roster.KindScenario, scID); err != nil && !errors.Is(err, persistence.ErrNotFound) {
				s.Metrics.IncPersistenceFailures()
				log.Error("Failed to delete cascaded scenario", "id", scID, "error", err)
			}
		}
	}

	s.Bus.Publish(events.Event{Type: events.TypeListChanged, Payload: kind})
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) LegacyPositionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		legacy, err := s.Adapter.LegacyPositions(r.Context())
		if err != nil {
			log.Error("Failed to read legacy positions", "error", err)
			http.Error(w, "Failed to read legacy positions", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, legacy)
	}
}

// ImportLegacyHandler accepts an exported roster file (XML or JSON) and
// merges its entities into the session, upserting by id. Entities the
// validation rules reject are skipped, not fatal.
func (s *Server) ImportLegacyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		imp, err := persistence.ParseLegacy(r.Body)
		if err != nil {
			log.Error("Failed to parse legacy export", "error", err)
			http.Error(w, "Unrecognized export format", http.StatusBadRequest)
			return
		}

		isDryRun := isDryRunFromContext(r)
		ctx := r.Context()
		counts := map[string]int{}

		for _, p := range imp.Players {
			saved, err := s.Store.UpsertPlayer(p)
			if err != nil {
				log.Warn("Skipping imported player", "name", p.Name, "error", err)
				continue
			}
			counts["players"]++
			if !isDryRun {
				if _, err := s.Adapter.SavePlayer(ctx, saved); err != nil {
					s.Metrics.IncPersistenceFailures()
					log.Error("Failed to persist imported player", "id", saved.ID, "error", err)
				}
			}
		}
		for _, p := range imp.Positions {
			saved, err := s.Store.UpsertPosition(p)
			if err != nil {
				log.Warn("Skipping imported position", "name", p.Name, "error", err)
				continue
			}
			counts["positions"]++
			if !isDryRun {
				if _, err := s.Adapter.SavePosition(ctx, saved); err != nil {
					s.Metrics.IncPersistenceFailures()
					log.Error("Failed to persist imported position", "id", saved.ID, "error", err)
				}
			}
		}
		for _, sc := range imp.Scenarios {
			saved, err := s.Store.UpsertScenario(sc)
			if err != nil {
				log.Warn("Skipping imported scenario", "name", sc.Name, "error", err)
				continue
			}
			counts["scenarios"]++
			if !isDryRun {
				if _, err := s.Adapter.SaveScenario(ctx, saved); err != nil {
					s.Metrics.IncPersistenceFailures()
					log.Error("Failed to persist imported scenario", "id", saved.ID, "error", err)
				}
			}
		}
		for _, seq := range imp.Sequences {
			saved, err := s.Store.UpsertSequence(seq)
			if err != nil {
				log.Warn("Skipping imported sequence", "name", seq.Name, "error", err)
				continue
			}
			counts["sequences"]++
			if !isDryRun {
				if _, err := s.Adapter.SaveSequence(ctx, saved); err != nil {
					s.Metrics.IncPersistenceFailures()
					log.Error("Failed to persist imported sequence", "id", saved.ID, "error", err)
				}
			}
		}

		for _, kind := range roster.Kinds {
			s.Bus.Publish(events.Event{Type: events.TypeListChanged, Payload: kind})
		}
		log.Info("Legacy import completed", "counts", counts)
		writeJSON(w, http.StatusOK, counts)
	}
}

// courtState is the view of the session returned by the court endpoints.
type courtState struct {
	Placements  []court.Placement `json:"placements"`
	LoadedItem  *court.LoadedItem `json:"loadedItem"`
	IsDirty     bool              `json:"isDirty"`
	IsAnimating bool              `json:"isAnimating"`
}

func (s *Server) currentCourtState() courtState {
	return courtState{
		Placements:  s.Session.Placements(),
		LoadedItem:  s.Session.LoadedItem(),
		IsDirty:     s.Session.IsDirty(),
		IsAnimating: s.Session.IsAnimating(),
	}
}

func (s *Server) CourtHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.currentCourtState())
	}
}

func (s *Server) CourtLoadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
			return
		}
		update := r.URL.Query().Get("update") != "false"
		skip := r.URL.Query().Get("skip") == "true"

		tr, err := s.Loader.Load(r.Context(), id, update, skip)
		if err != nil {
			if errors.Is(err, court.ErrAnimationInProgress) {
				http.Error(w, "Animation already in progress", http.StatusConflict)
				return
			}
			log.Error("Failed to load position", "id", id, "error", err)
			http.Error(w, "Failed to load position", http.StatusInternalServerError)
			return
		}

		state := "idle"
		if tr != nil {
			select {
			case <-tr.Done():
			default:
				state = "animating"
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"state": state, "court": s.currentCourtState()})
	}
}

func (s *Server) CourtPlaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			PlayerID string  `json:"playerId"`
			X        float64 `json:"x"`
			Y        float64 `json:"y"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		player, ok := s.Store.GetPlayer(req.PlayerID)
		if !ok {
			http.Error(w, "Unknown player", http.StatusNotFound)
			return
		}
		s.Session.Place(court.Placement{
			PlayerID: player.ID,
			Jersey:   player.Jersey,
			Name:     player.Name,
			X:        req.X,
			Y:        req.Y,
		})
		writeJSON(w, http.StatusOK, s.currentCourtState())
	}
}

// CourtSaveHandler snapshots the on-court arrangement into a position.
// With 'id' it overwrites that position's placements, otherwise 'name'
// creates a new one.
func (s *Server) CourtSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := r.URL.Query().Get("id")
		name := r.URL.Query().Get("name")

		var pos roster.Position
		if id != "" {
			existing, ok := s.Store.GetPosition(id)
			if !ok {
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}
			pos = existing
			if name != "" {
				pos.Name = name
			}
		} else {
			if name == "" {
				http.Error(w, "Missing 'name' query parameter", http.StatusBadRequest)
				return
			}
			pos = roster.Position{Name: name, Tags: []string{}}
		}
		pos.PlayerPositions = s.Loader.Snapshot()

		saved, err := s.Store.UpsertPosition(pos)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !isDryRunFromContext(r) {
			if _, err := s.Adapter.SavePosition(r.Context(), saved); err != nil {
				s.persistFailed(w, roster.KindPosition, err)
				return
			}
		}
		s.Session.SetLoadedItem(&court.LoadedItem{Type: court.ItemPosition, ID: saved.ID, Name: saved.Name})
		s.Bus.Publish(events.Event{Type: events.TypeListChanged, Payload: roster.KindPosition})
		writeJSON(w, http.StatusOK, saved)
	}
}

func (s *Server) CourtClearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Session.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Court cleared!")
	}
}

// playbackResponse reports the outcome of a play request and where the
// sequence cursor sits afterwards.
func (s *Server) playbackResponse(w http.ResponseWriter, tr *court.Transition) {
	state := "idle"
	if tr != nil {
		select {
		case <-tr.Done():
		default:
			state = "animating"
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": state, "cursor": s.Player.Cursor()})
}

func (s *Server) playbackError(w http.ResponseWriter, err error) {
	if errors.Is(err, court.ErrAnimationInProgress) {
		http.Error(w, "Animation already in progress", http.StatusConflict)
		return
	}
	log.Error("Playback request failed", "error", err)
	http.Error(w, "Playback failed", http.StatusInternalServerError)
}

func (s *Server) PlayScenarioHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
			return
		}
		tr, err := s.Player.PlayScenario(r.Context(), id)
		if err != nil {
			s.playbackError(w, err)
			return
		}
		s.playbackResponse(w, tr)
	}
}

func (s *Server) StartSequenceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Missing 'id' query parameter", http.StatusBadRequest)
			return
		}
		tr, err := s.Player.StartSequence(r.Context(), id)
		if err != nil {
			s.playbackError(w, err)
			return
		}
		s.playbackResponse(w, tr)
	}
}

func (s *Server) PlayNextHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tr, err := s.Player.PlayNext(r.Context())
		if err != nil {
			s.playbackError(w, err)
			return
		}
		s.playbackResponse(w, tr)
	}
}

func (s *Server) PlayPreviousHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tr, err := s.Player.PlayPrevious(r.Context())
		if err != nil {
			s.playbackError(w, err)
			return
		}
		s.playbackResponse(w, tr)
	}
}

func (s *Server) PublishPositionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		id := r.PathValue("id")
		pos, ok := s.Store.GetPosition(id)
		if !ok {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		if s.Notifier == nil {
			http.Error(w, "Notifier not configured", http.StatusServiceUnavailable)
			return
		}
		if err := s.Notifier.SendLineupNotification(pos, isDryRunFromContext(r)); err != nil {
			log.Error("Failed to publish lineup", "id", id, "error", err)
			http.Error(w, "Failed to publish lineup", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Lineup published!")
	}
}
