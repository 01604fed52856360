package notifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/eventhub-api/internal/config"
	"github.com/gdg-garage/eventhub-api/internal/models"
)

// Registration describes one registration change worth announcing.
type Registration struct {
	Action       string
	Event        models.Event
	Participant  models.Participant
	Registration models.Registration
}

type Notifier interface {
	NotifyRegistration(ctx context.Context, n Registration) error
}

// sender is the part of *discordgo.Session the notifier needs.
type sender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   sender
	channelID string
}

var ErrNotConfigured = errors.New("discord notifications are not configured")

// NewDiscordNotifier creates a REST-only bot session; no gateway connection is opened.
func NewDiscordNotifier(cfg *config.Config) (*DiscordNotifier, error) {
	if cfg.DiscordBotToken == "" || cfg.DiscordNotificationsChannelID == "" {
		return nil, ErrNotConfigured
	}
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordNotifier{session: session, channelID: cfg.DiscordNotificationsChannelID}, nil
}

func (n *DiscordNotifier) NotifyRegistration(ctx context.Context, r Registration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, formatMessage(r), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

func formatMessage(r Registration) string {
	var headline string
	switch r.Action {
	case models.ActionCancelled:
		headline = "❌ **Registration Cancelled**"
	case models.ActionUpdated:
		headline = "✏️ **Registration Updated**"
	default:
		headline = "🎉 **New Registration**"
	}

	var b strings.Builder
	b.WriteString(headline)
	fmt.Fprintf(&b, "\n**Event:** %s (%s)", r.Event.Name, r.Event.StartsAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "\n**Participant:** %s <%s>", r.Participant.FullName, r.Participant.Email)
	if r.Action != models.ActionCancelled {
		fmt.Fprintf(&b, "\n**Status:** %s", r.Registration.Status)
	}
	return b.String()
}
