package migrations

import (
	"github.com/incvoting/voting-api/internal/domain/delegate"
	"github.com/incvoting/voting-api/internal/domain/election"
	"github.com/incvoting/voting-api/internal/domain/vote"
)

// AllModels returns every model managed by AutoMigrate, ordered so that
// referenced tables are created before their dependents.
func AllModels() []any {
	return []any{
		&delegate.Delegate{},
		&delegate.ImportLog{},
		&election.Position{},
		&election.Candidate{},
		&vote.Vote{},
	}
}
