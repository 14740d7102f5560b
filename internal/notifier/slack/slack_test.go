package slack

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/courtware/courtboard/internal/metrics"
	"github.com/courtware/courtboard/internal/roster"
	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockSlackAPI is a mock implementation of the parts of the slack.Client that we use.
type mockSlackAPI struct {
	postMessageContextFunc func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

func (m *mockSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	if m.postMessageContextFunc != nil {
		return m.postMessageContextFunc(ctx, channelID, options...)
	}
	return "C12345", "123456789.12345", nil
}

func TestSendMessage_DryRun(t *testing.T) {
	metrics := metrics.NewMock()
	// Pass nil for the api, as it shouldn't be called in dry-run mode.
	notifier := NewNotifierWithAPI(nil, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, true)
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.SlackNotifSent())
}

func TestSendMessage_Success(t *testing.T) {
	postMessageCalled := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			postMessageCalled = true
			assert.Equal(t, "C123", channelID)
			return "C123", "ts123", nil
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage(slackapi.NewSectionBlock(slackapi.NewTextBlockObject("plain_text", "hello", false, false), nil, nil))
	_, _, err := notifier.sendMessage(message, false)

	require.NoError(t, err)
	assert.True(t, postMessageCalled, "PostMessageContext should have been called")
	assert.Equal(t, 1, metrics.SlackNotifSent())
	assert.Equal(t, 0, metrics.SlackNotifFailed())
}

func TestSendMessage_Failure(t *testing.T) {
	expectedErr := errors.New("slack API is down")
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			return "", "", expectedErr
		},
	}

	metrics := metrics.NewMock()
	notifier := NewNotifierWithAPI(api, "C123", metrics)

	message := slackapi.NewBlockMessage()
	_, _, err := notifier.sendMessage(message, false)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.Equal(t, 0, metrics.SlackNotifSent())
	assert.Equal(t, 1, metrics.SlackNotifFailed())
}

func TestSendLineupNotification(t *testing.T) {
	called := false
	api := &mockSlackAPI{
		postMessageContextFunc: func(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
			called = true
			return "C123", "ts123", nil
		},
	}
	notifier := NewNotifierWithAPI(api, "C123", metrics.NewMock())

	err := notifier.SendLineupNotification(roster.Position{
		ID:   "p1",
		Name: "Serve receive",
		Tags: []string{"defense"},
		PlayerPositions: []roster.PlayerPlacement{
			{PlayerID: "a", Jersey: "4", Name: "Ann", X: 100, Y: 200},
			{PlayerID: "b", Jersey: "7", Name: "Mia", X: 100, Y: 100},
		},
	}, false)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestFormatLineup_SortsFrontRowFirst(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	msg := notifier.formatLineup(roster.Position{
		Name: "Attack",
		PlayerPositions: []roster.PlayerPlacement{
			{PlayerID: "back", Jersey: "9", Name: "Back", X: 100, Y: 400},
			{PlayerID: "front", Jersey: "4", Name: "Front", X: 100, Y: 50},
		},
	})

	require.GreaterOrEqual(t, len(msg.Blocks.BlockSet), 2)
	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	text := section.Text.Text
	front := strings.Index(text, "#4 Front")
	back := strings.Index(text, "#9 Back")
	require.NotEqual(t, -1, front)
	require.NotEqual(t, -1, back)
	assert.Less(t, front, back)
}

func TestFormatScenario(t *testing.T) {
	notifier := NewNotifierWithAPI(nil, "C123", metrics.NewMock())

	msg := notifier.formatScenario(
		roster.Scenario{Name: "Rotate", Tags: []string{"drill"}},
		roster.Position{Name: "A"},
		roster.Position{Name: "B"},
	)
	require.GreaterOrEqual(t, len(msg.Blocks.BlockSet), 2)
	section, ok := msg.Blocks.BlockSet[1].(*slackapi.SectionBlock)
	require.True(t, ok)
	assert.Contains(t, section.Text.Text, "From: A")
	assert.Contains(t, section.Text.Text, "To: B")
}
