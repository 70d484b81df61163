package supabase

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"
	"social-analytics-dashboard/internal/models"
)

// EventPublisher writes lifecycle events to a table. Supabase Realtime
// broadcasts the inserts to subscribed clients.
type EventPublisher struct {
	client *supabase.Client
	table  string
}

func NewEventPublisher(client *supabase.Client, table string) *EventPublisher {
	return &EventPublisher{
		client: client,
		table:  table,
	}
}

func (p *EventPublisher) PublishAnalysisEvent(ctx context.Context, event models.AnalysisEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := p.client.From(p.table).Insert(EventRow(event), false, "", "minimal", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Event, err)
	}
	return nil
}

// EventRow is the column mapping of the analysis_events table.
func EventRow(event models.AnalysisEvent) map[string]interface{} {
	row := map[string]interface{}{
		"analysis_id": event.AnalysisID,
		"owner":       event.Owner,
		"event":       event.Event,
		"status":      event.Status,
		"progress":    event.Progress,
		"occurred_at": event.OccurredAt,
	}
	if event.Message != "" {
		row["message"] = event.Message
	}
	if event.Attempt > 0 {
		row["attempt"] = event.Attempt
	}
	return row
}
