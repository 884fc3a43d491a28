package jobs

import (
	"context"
	"time"

	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/repo"
)

// TokenSweeper deletes expired tokens, best-effort and independent per token.
type TokenSweeper struct {
	Repo *repo.Repo

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func (j *TokenSweeper) Name() string { return "oldTokensCleaner" }

func (j *TokenSweeper) Run(ctx context.Context) error {
	l := logging.FromContext(ctx).With("job", j.Name())

	now := time.Now()
	if j.Now != nil {
		now = j.Now()
	}

	tokens, err := j.Repo.ListTokens()
	if err != nil {
		return err
	}

	expired := 0
	for _, token := range tokens {
		if token.Expires.After(now) {
			continue
		}
		expired++
		if err := j.Repo.RemoveToken(token.Token); err != nil {
			l.Error("token_cleanup_failed", "token", token.Token, "error", err)
		}
	}
	l.Info("token_sweep", "expired", expired)
	return nil
}
