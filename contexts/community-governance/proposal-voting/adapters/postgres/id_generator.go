package postgresadapter

import (
	"context"

	"github.com/google/uuid"
)

// UUIDGenerator issues UUIDv4 identifiers for proposals, votes and events.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
