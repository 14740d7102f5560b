package notifier

import (
	"github.com/courtware/courtboard/internal/roster"
)

// Notifier publishes lineup announcements to an external channel. It
// decouples the rest of the application from the specific provider (e.g.,
// Slack).
type Notifier interface {
	// SendLineupNotification announces a position's lineup, typically when
	// a coach publishes it to the team.
	SendLineupNotification(position roster.Position, dryRun bool) error
	// SendScenarioNotification announces a scenario by naming its start and
	// end positions.
	SendScenarioNotification(scenario roster.Scenario, start, end roster.Position, dryRun bool) error
}
