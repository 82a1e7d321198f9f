package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Adrien490/dietetique-et-interventions-sub000/internal/domain"
)

// Invalidator releases cache tags after a mutation. *cache.Store satisfies it.
type Invalidator interface {
	Invalidate(tags ...string)
}

// mutation is one operation split into its stages. validate is pure; apply
// is the only stage that touches storage and returns the tags its writes
// made stale (also on a soft failure where the write still happened).
type mutation[In, Out any] struct {
	action   string
	public   bool
	validate func(In) (In, error)
	apply    func(ctx context.Context, in In) (*Out, []string, error)
	success  func(out *Out) string
}

// run composes authorize → validate → apply → invalidate → respond.
// Authorization and validation failures return before apply runs.
func run[In, Out any](ctx context.Context, auth Authorizer, inv Invalidator, m mutation[In, Out], in In) domain.Result[Out] {
	res := execute(ctx, auth, inv, m, in)
	mutationsTotal.WithLabelValues(m.action, string(res.Status)).Inc()

	lg := zerolog.Ctx(ctx)
	switch {
	case res.Status == domain.ActionSuccess:
		lg.Info().Str("action", m.action).Msg("contact request mutation applied")
	case res.Status == domain.ActionError && !IsConflict(res.Err) && res.Data == nil:
		lg.Error().Err(res.Err).Str("action", m.action).Msg("contact request mutation failed")
	default:
		lg.Warn().Err(res.Err).Str("action", m.action).Str("outcome", string(res.Status)).Msg("contact request mutation rejected")
	}
	return res
}

func execute[In, Out any](ctx context.Context, auth Authorizer, inv Invalidator, m mutation[In, Out], in In) domain.Result[Out] {
	if !m.public && (auth == nil || !auth.IsAdmin(ctx)) {
		return outcome[Out](ErrUnauthorized, nil, "")
	}
	valid, err := m.validate(in)
	if err != nil {
		return outcome[Out](err, nil, "")
	}

	// The apply step runs to completion once started.
	out, tags, err := m.apply(context.WithoutCancel(ctx), valid)
	if len(tags) > 0 && inv != nil {
		inv.Invalidate(tags...)
	}
	if err != nil {
		return outcome(err, out, "")
	}
	return outcome(nil, out, m.success(out))
}
