package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/safar/go-storefront/internal/models"
)

// SimulatedProcessor waits for Delay and then succeeds, unless a failure
// has been queued with FailNext.
type SimulatedProcessor struct {
	Delay time.Duration

	mu       sync.Mutex
	failures []error
}

func NewSimulatedProcessor(delay time.Duration) *SimulatedProcessor {
	return &SimulatedProcessor{Delay: delay}
}

// FailNext makes the next Process call return err after the delay. Nil
// means ErrTransport.
func (p *SimulatedProcessor) FailNext(err error) {
	if err == nil {
		err = ErrTransport
	}
	p.mu.Lock()
	p.failures = append(p.failures, err)
	p.mu.Unlock()
}

func (p *SimulatedProcessor) Process(ctx context.Context, order *models.Order) error {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.failures) > 0 {
		err := p.failures[0]
		p.failures = p.failures[1:]
		return err
	}
	return nil
}
