package records

import "context"

// Repo is the record store. It exposes no update or delete.
type Repo interface {
	// Initialize ensures the records table exists. It is safe to call on every startup.
	Initialize(ctx context.Context) error
	// Insert appends rec and returns it with its assigned id.
	Insert(ctx context.Context, rec Record) (Record, error)
	// ListAll returns every record in ascending id order.
	ListAll(ctx context.Context) ([]Record, error)
}
