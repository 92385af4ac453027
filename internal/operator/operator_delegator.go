package operator

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/budget-ledger/internal/operator/actions"
	"github.com/carson-networks/budget-ledger/internal/storage"
)

var ErrStopped = errors.New("operator delegator stopped")

// OperatorDelegator owns one queue per Operator (worker) and routes every
// session to the same queue, so actions of one session run one at a time and
// in submission order while other sessions proceed on other workers.
type OperatorDelegator struct {
	storage    storage.LedgerStore
	queues     []chan ActionItem
	numWorkers int
	logger     logrus.FieldLogger

	mu       sync.RWMutex
	stopped  bool
	wg       sync.WaitGroup
	stopOnce sync.Once
}

func NewOperatorDelegator(s storage.LedgerStore, numWorkers int, logger logrus.FieldLogger) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	queues := make([]chan ActionItem, numWorkers)
	for i := range queues {
		queues[i] = make(chan ActionItem, 1000)
	}
	return &OperatorDelegator{
		storage:    s,
		queues:     queues,
		numWorkers: numWorkers,
		logger:     logger,
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.storage, d.queues[i], d.logger.WithField("operator", i))
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

// Stop closes every queue and waits for queued items to drain.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		for _, queue := range d.queues {
			close(queue)
		}
		d.mu.Unlock()
		d.wg.Wait()
	})
}

// Ready reports ErrStopped once Stop has been called.
func (d *OperatorDelegator) Ready() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	return nil
}

func (d *OperatorDelegator) queueFor(session string) chan ActionItem {
	h := fnv.New32a()
	_, _ = h.Write([]byte(session))
	return d.queues[h.Sum32()%uint32(len(d.queues))]
}

// Process runs action against a writer for session and returns once it has
// been committed or rolled back. Cancelling ctx only abandons the action
// while it is still queued or while its storage calls observe ctx.
func (d *OperatorDelegator) Process(ctx context.Context, session string, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		session:  session,
		action:   action,
		response: respCh,
	}

	if err := d.enqueue(ctx, item); err != nil {
		return err
	}

	// Once queued the outcome is always reported, so a cancelled caller
	// still learns whether the action committed.
	resp := <-respCh
	return resp.err
}

func (d *OperatorDelegator) enqueue(ctx context.Context, item ActionItem) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queueFor(item.session) <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
