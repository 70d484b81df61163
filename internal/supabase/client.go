package supabase

import (
	"errors"
	"fmt"

	"github.com/supabase-community/supabase-go"
	"social-analytics-dashboard/internal/config"
)

// Client is the project-level Supabase handle shared by the event
// publisher. Storage and Postgres use their own connections.
type Client struct {
	Supabase    *supabase.Client
	eventsTable string
}

func NewClient(cfg *config.Config) (*Client, error) {
	if !cfg.SupabaseEnabled() {
		return nil, errors.New("SUPABASE_URL and SUPABASE_PUBLISHABLE_KEY are required")
	}
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		Supabase:    client,
		eventsTable: cfg.SupabaseEventsTable,
	}, nil
}

// Events returns a publisher writing to the configured events table.
func (c *Client) Events() *EventPublisher {
	return NewEventPublisher(c.Supabase, c.eventsTable)
}
