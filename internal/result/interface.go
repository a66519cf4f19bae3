package result

import "context"

// Backend receives the outcome of a user action. Implementations perform the
// network or storage work; the machine never does I/O itself.
type Backend interface {
	SubmitResult(ctx context.Context, payload Payload) error
	ConfirmResult(ctx context.Context) error
	DisputeResult(ctx context.Context, reason string) error
}
