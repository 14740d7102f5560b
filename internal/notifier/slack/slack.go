package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/courtware/courtboard/internal/metrics"
	"github.com/courtware/courtboard/internal/notifier"
	"github.com/courtware/courtboard/internal/roster"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending lineup announcements to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendLineupNotification announces a position's lineup.
func (s *Notifier) SendLineupNotification(position roster.Position, dryRun bool) error {
	msg := s.formatLineup(position)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendScenarioNotification announces a scenario by naming its start and end positions.
func (s *Notifier) SendScenarioNotification(scenario roster.Scenario, start, end roster.Position, dryRun bool) error {
	msg := s.formatScenario(scenario, start, end)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// formatLineup creates the Slack message for a published lineup using Block Kit.
func (s *Notifier) formatLineup(position roster.Position) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏐 Lineup: %s", position.Name), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Players, front row (closest to the net) first.
	placements := make([]roster.PlayerPlacement, len(position.PlayerPositions))
	copy(placements, position.PlayerPositions)
	sort.Slice(placements, func(i, j int) bool {
		if placements[i].Y != placements[j].Y {
			return placements[i].Y < placements[j].Y
		}
		return placements[i].X < placements[j].X
	})

	var lines []string
	for _, p := range placements {
		name := p.Name
		if name == "" {
			name = p.PlayerID
		}
		if p.Jersey != "" {
			lines = append(lines, fmt.Sprintf("• #%s %s", p.Jersey, name))
		} else {
			lines = append(lines, fmt.Sprintf("• %s", name))
		}
	}
	if len(lines) > 0 {
		playersText := "Players:\n" + strings.Join(lines, "\n")
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playersText, true, false), nil, nil))
	} else {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players placed.", true, false), nil, nil))
	}

	var contextElements []slack.MixedElement
	if len(position.Tags) > 0 {
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", "Tags: "+strings.Join(position.Tags, ", "), true, false))
	}
	if len(contextElements) > 0 {
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatScenario creates the Slack message for a scenario announcement.
func (s *Notifier) formatScenario(scenario roster.Scenario, start, end roster.Position) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏐 Scenario: %s", scenario.Name), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("From: %s\nTo: %s", start.Name, end.Name)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	if len(scenario.Tags) > 0 {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject("plain_text", "Tags: "+strings.Join(scenario.Tags, ", "), true, false)))
	}

	return slack.NewBlockMessage(blocks...)
}
