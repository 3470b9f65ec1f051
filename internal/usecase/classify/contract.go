package classify

import (
	"context"

	"github.com/kailas-cloud/talentrag/internal/domain"
)

// Completer issues the classification chat call.
type Completer interface {
	Complete(ctx context.Context, c domain.Completion) (string, error)
}
