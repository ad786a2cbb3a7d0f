// Package pipeline runs one complete sizing pass: build members, build the
// catalog, match and size, assemble the report. The CLI and the HTTP server
// both go through Run.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Koson7970/wood-strength-prediction-model/internal/member"
	"github.com/Koson7970/wood-strength-prediction-model/internal/report"
	"github.com/Koson7970/wood-strength-prediction-model/internal/sizing"
	"github.com/Koson7970/wood-strength-prediction-model/internal/timber"
)

// Options configures a run
type Options struct {
	Member  member.Options
	Timber  timber.Options
	Workers int

	Logger   *zap.Logger
	Observer sizing.Observer
}

// Output is everything a run produces
type Output struct {
	RunID    string
	Started  time.Time
	Members  []member.Member
	Stock    []timber.Stock
	Result   *sizing.Result
	Report   *report.Report
	Duration time.Duration
}

// Run executes one pass. Malformed members or catalog rows abort with a nil
// Output. When only some members fail to size, the Output is complete and
// the returned error joins the per-member failures.
func Run(ctx context.Context, rows []member.Raw, catalog []timber.Row, opts Options) (*Output, error) {
	out := &Output{RunID: uuid.NewString(), Started: time.Now()}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("run_id", out.RunID))

	members, err := member.Build(rows, opts.Member)
	if err != nil {
		log.Warn("member input rejected", zap.Error(err))
		return nil, err
	}
	stock, err := timber.Build(catalog, opts.Timber)
	if err != nil {
		log.Warn("catalog rejected", zap.Error(err))
		return nil, err
	}
	log.Debug("inputs built",
		zap.Int("members", len(members)),
		zap.Int("stock", len(stock)),
		zap.Stringer("width_class", opts.Timber.WidthClass),
		zap.Int32("seed", opts.Timber.Seed))

	engine := sizing.New(sizing.Options{
		Workers:  opts.Workers,
		Logger:   log,
		Observer: opts.Observer,
	})
	res, sizeErr := engine.Run(ctx, members, stock)
	if res == nil {
		return nil, sizeErr
	}

	rep, err := report.Assemble(res)
	if err != nil {
		return nil, err
	}

	out.Members = res.Members
	out.Stock = res.Stock
	out.Result = res
	out.Report = rep
	out.Duration = time.Since(out.Started)
	return out, sizeErr
}
