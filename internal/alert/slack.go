package alert

import (
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// SlackNotifier posts alert messages through the Slack Web API.
type SlackNotifier struct {
	client *slackapi.Client
}

// NewSlackNotifier creates a notifier from a bot token (xoxb-...).
func NewSlackNotifier(token string) (*SlackNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("alert: slack token is required")
	}
	return &SlackNotifier{client: slackapi.New(token)}, nil
}

// Notify posts text to the given channel.
func (n *SlackNotifier) Notify(channel, text string) error {
	_, _, err := n.client.PostMessage(channel, slackapi.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("alert: post to %s: %w", channel, err)
	}
	return nil
}
