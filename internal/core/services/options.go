package services

import (
	"time"

	"github.com/ritsnep/HimalytixNew-sub002/internal/core/workflow"
	"github.com/ritsnep/HimalytixNew-sub002/internal/events"
)

type options struct {
	clock        func() time.Time
	engine       *workflow.Engine
	publisher    events.Publisher
	baseCurrency string
}

// Option configures the services.
type Option func(*options)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// WithEngine overrides the approval workflow engine.
func WithEngine(e *workflow.Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithPublisher sets where posted-journal events go. Defaults to dropping them.
func WithPublisher(p events.Publisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithBaseCurrency sets the currency ledger balances are kept in.
func WithBaseCurrency(code string) Option {
	return func(o *options) { o.baseCurrency = code }
}

func applyOptions(opts []Option) options {
	o := options{baseCurrency: "USD", publisher: events.NopPublisher{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		if o.clock != nil {
			o.engine = workflow.NewEngine(workflow.WithClock(o.clock))
		} else {
			o.engine = workflow.NewEngine()
		}
	}
	return o
}
