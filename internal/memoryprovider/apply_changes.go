package memoryprovider

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/netguru/external-dns-webhook-sdk/pkg/plan"
)

// ApplyChanges applies record changes using worker goroutines for
// parallel processing. The first failing change cancels the remaining
// work and its error is returned.
func (p *Provider) ApplyChanges(ctx context.Context, changes []plan.Change) error {
	p.logger.Info("Applying record changes",
		zap.Int("count", len(changes)))

	if len(changes) == 0 {
		p.logger.Info("No changes to apply")
		return nil
	}

	return p.processChangesWithWorkers(ctx, changes)
}

// processChangesWithWorkers fans the changes out over a bounded worker
// pool and collects per-change results.
func (p *Provider) processChangesWithWorkers(ctx context.Context, changes []plan.Change) error {
	workerCount := p.workers
	if len(changes) < workerCount {
		workerCount = len(changes)
	}

	taskChan := make(chan plan.Change, len(changes))
	resultChan := make(chan error, len(changes))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.worker(ctx, workerID, taskChan, resultChan)
		}(i)
	}

	go func() {
		for _, change := range changes {
			select {
			case taskChan <- change:
			case <-ctx.Done():
				return
			}
		}
		close(taskChan)
	}()

	var firstErr error
	for i := 0; i < len(changes); i++ {
		select {
		case err := <-resultChan:
			if err != nil && firstErr == nil {
				firstErr = err
				cancel()
			}
		case <-ctx.Done():
			if firstErr == nil {
				firstErr = ctx.Err()
			}
		}
	}

	wg.Wait()
	close(resultChan)

	return firstErr
}

// worker drains the task channel until it closes or the context ends.
func (p *Provider) worker(ctx context.Context, id int, taskChan <-chan plan.Change, resultChan chan<- error) {
	for {
		select {
		case change, ok := <-taskChan:
			if !ok {
				return
			}

			if p.dryRun {
				p.logger.Info("Would apply change (dry-run)",
					zap.Int("worker", id),
					zap.String("action", string(change.Action)),
					zap.String("dnsName", change.Endpoint.DNSName),
					zap.String("recordType", change.Endpoint.RecordType))
				resultChan <- nil
				continue
			}

			resultChan <- p.applyChange(change)

		case <-ctx.Done():
			return
		}
	}
}

// applyChange mutates the store for a single change under the write lock.
func (p *Provider) applyChange(change plan.Change) error {
	ep := change.Endpoint
	if ep == nil {
		return fmt.Errorf("change %s carries no endpoint", change.Action)
	}
	if !p.domainFilter.Match(ep.DNSName) {
		return fmt.Errorf("record %s is outside the domain filter", ep.DNSName)
	}

	key := ep.Key()

	p.mu.Lock()
	defer p.mu.Unlock()

	switch change.Action {
	case plan.ActionCreate:
		if _, exists := p.records[key]; exists {
			return fmt.Errorf("record %s already exists", key)
		}
		p.records[key] = ep
	case plan.ActionUpdate:
		if _, exists := p.records[key]; !exists {
			return fmt.Errorf("record %s not found", key)
		}
		p.records[key] = ep
	case plan.ActionDelete:
		if _, exists := p.records[key]; !exists {
			return fmt.Errorf("record %s not found", key)
		}
		delete(p.records, key)
	default:
		return fmt.Errorf("unknown action: %s", change.Action)
	}

	p.logger.Debug("Applied change",
		zap.String("action", string(change.Action)),
		zap.String("record", key.String()))
	return nil
}
