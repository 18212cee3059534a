package checkout

import "context"

// Repository records receipts for completed orders. Implementations keep
// them only for the life of the session; nothing survives a restart.
type Repository interface {
	Record(ctx context.Context, receipt *Receipt) error
	List(ctx context.Context) ([]*Receipt, error)
}
