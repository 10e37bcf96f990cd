package services

import (
	portsrepo "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/repositories"
	portssvc "github.com/ritsnep/HimalytixNew-sub002/internal/core/ports/services"
	"github.com/ritsnep/HimalytixNew-sub002/internal/events"
	"github.com/ritsnep/HimalytixNew-sub002/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, store portsrepo.LedgerStore, publisher events.Publisher, mailer portssvc.Mailer, opts ...Option) *portssvc.ServiceContainer {
	// Services share one engine.
	o := applyOptions(opts)
	shared := append([]Option{
		WithBaseCurrency(cfg.BaseCurrency),
		WithPublisher(publisher),
	}, opts...)
	shared = append(shared, WithEngine(o.engine))

	return &portssvc.ServiceContainer{
		Account:       NewAccountService(store, shared...),
		Period:        NewPeriodService(store, shared...),
		Workflow:      NewWorkflowService(store, shared...),
		Posting:       NewPostingService(store, shared...),
		Escalation:    NewEscalationService(store, shared...),
		Notifications: NewNotificationRelay(store, mailer, cfg.NotifyMaxAttempts, cfg.NotifyBatchSize, shared...),
	}
}
