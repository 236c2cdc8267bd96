package ports

import (
	"context"

	"github.com/kk0826-ai/adopstktstracker/internal/core/domain"
)

// TicketSource defines the secondary port for fetching tickets from the
// remote tracker. One call returns one full page of normalized tickets for
// the configured project and reporting window.
type TicketSource interface {
	FetchTickets(ctx context.Context) ([]domain.Ticket, error)
	Ping(ctx context.Context) error
}
