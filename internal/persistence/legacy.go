package persistence

import (
	"bufio"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/courtware/courtboard/internal/roster"
	"github.com/google/uuid"
)

// LegacyImport is the normalized result of parsing an old export file.
// Positions arrive from the flat name-keyed map with freshly minted ids,
// and sequences have their scenarioIds shape folded into items.
type LegacyImport struct {
	Players   []roster.Player
	Positions []roster.Position
	Scenarios []roster.Scenario
	Sequences []roster.Sequence
}

// legacyJSONExport mirrors the old app's JSON export file.
type legacyJSONExport struct {
	Players   []roster.Player                      `json:"players"`
	Positions map[string][]roster.PlayerPlacement  `json:"positions"`
	Scenarios []roster.Scenario                    `json:"scenarios"`
	Sequences []roster.Sequence                    `json:"sequences"`
}

// legacyXMLExport mirrors the even older XML export format.
type legacyXMLExport struct {
	XMLName xml.Name `xml:"courtboard"`
	Players []struct {
		ID     string `xml:"id,attr"`
		Jersey string `xml:"jersey,attr"`
		Name   string `xml:"name,attr"`
	} `xml:"player"`
	Positions []struct {
		Name    string `xml:"name,attr"`
		Players []struct {
			ID     string  `xml:"id,attr"`
			Jersey string  `xml:"jersey,attr"`
			Name   string  `xml:"name,attr"`
			X      float64 `xml:"x,attr"`
			Y      float64 `xml:"y,attr"`
		} `xml:"player"`
	} `xml:"position"`
	Scenarios []struct {
		ID    string `xml:"id,attr"`
		Name  string `xml:"name,attr"`
		Start string `xml:"start,attr"`
		End   string `xml:"end,attr"`
	} `xml:"scenario"`
	Sequences []struct {
		ID    string `xml:"id,attr"`
		Name  string `xml:"name,attr"`
		Steps []struct {
			Scenario string `xml:"scenario,attr"`
		} `xml:"step"`
	} `xml:"sequence"`
}

// ParseLegacy reads an old XML or JSON export, sniffing the format from the
// first non-space byte, and returns normalized entities.
func ParseLegacy(r io.Reader) (*LegacyImport, error) {
	br := bufio.NewReader(r)
	first, err := firstNonSpace(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy export: %w", err)
	}
	if first == '<' {
		return parseLegacyXML(br)
	}
	return parseLegacyJSON(br)
}

func firstNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(rune(b[0])) {
			return b[0], nil
		}
		if _, err := br.Discard(1); err != nil {
			return 0, err
		}
	}
}

func parseLegacyJSON(r io.Reader) (*LegacyImport, error) {
	var export legacyJSONExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to parse legacy JSON export: %w", err)
	}

	imp := &LegacyImport{
		Players:   export.Players,
		Scenarios: export.Scenarios,
		Sequences: export.Sequences,
	}
	for name, placements := range export.Positions {
		imp.Positions = append(imp.Positions, roster.Position{
			ID:              uuid.New().String(),
			Name:            name,
			Tags:            []string{},
			PlayerPositions: clampAll(placements),
		})
	}
	for i := range imp.Sequences {
		imp.Sequences[i].Normalize()
	}
	log.Info("Parsed legacy JSON export", "players", len(imp.Players),
		"positions", len(imp.Positions), "scenarios", len(imp.Scenarios), "sequences", len(imp.Sequences))
	return imp, nil
}

func parseLegacyXML(r io.Reader) (*LegacyImport, error) {
	var export legacyXMLExport
	if err := xml.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to parse legacy XML export: %w", err)
	}

	imp := &LegacyImport{}
	for _, p := range export.Players {
		imp.Players = append(imp.Players, roster.Player{ID: p.ID, Jersey: p.Jersey, Name: p.Name})
	}
	for _, pos := range export.Positions {
		placements := make([]roster.PlayerPlacement, 0, len(pos.Players))
		for _, pl := range pos.Players {
			placements = append(placements, roster.PlayerPlacement{
				PlayerID: pl.ID,
				Jersey:   pl.Jersey,
				Name:     pl.Name,
				X:        pl.X,
				Y:        pl.Y,
			})
		}
		imp.Positions = append(imp.Positions, roster.Position{
			ID:              uuid.New().String(),
			Name:            pos.Name,
			Tags:            []string{},
			PlayerPositions: clampAll(placements),
		})
	}
	for _, sc := range export.Scenarios {
		imp.Scenarios = append(imp.Scenarios, roster.Scenario{
			ID:              sc.ID,
			Name:            sc.Name,
			StartPositionID: sc.Start,
			EndPositionID:   sc.End,
			Tags:            []string{},
		})
	}
	for _, sq := range export.Sequences {
		ids := make([]string, 0, len(sq.Steps))
		for _, step := range sq.Steps {
			ids = append(ids, step.Scenario)
		}
		seq := roster.Sequence{ID: sq.ID, Name: sq.Name, ScenarioIDs: ids}
		seq.Normalize()
		imp.Sequences = append(imp.Sequences, seq)
	}
	log.Info("Parsed legacy XML export", "players", len(imp.Players),
		"positions", len(imp.Positions), "scenarios", len(imp.Scenarios), "sequences", len(imp.Sequences))
	return imp, nil
}

func clampAll(placements []roster.PlayerPlacement) []roster.PlayerPlacement {
	for i := range placements {
		placements[i].X = roster.ClampX(placements[i].X)
		placements[i].Y = roster.ClampY(placements[i].Y)
	}
	return placements
}
