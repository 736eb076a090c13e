package fundme

import (
	"context"
	"fmt"

	"fundme/internal/domain"
)

type frameKey struct{ c *Contract }

// frame collects the events of one top-level call and its nested calls.
type frame struct {
	events []domain.LedgerEvent
}

func (c *Contract) frameFrom(ctx context.Context) *frame {
	f, _ := ctx.Value(frameKey{c}).(*frame)
	return f
}

// run executes op atomically. Nested calls reuse the caller's frame and lock;
// each level restores its own entry state on failure.
func (c *Contract) run(ctx context.Context, op func(ctx context.Context, f *frame) error) error {
	if f := c.frameFrom(ctx); f != nil {
		saved := c.state.clone()
		mark := len(f.events)
		if err := op(ctx, f); err != nil {
			c.state = saved
			f.events = f.events[:mark]
			return err
		}
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	f := &frame{}
	ctx = context.WithValue(ctx, frameKey{c}, f)
	saved := c.state.clone()
	if err := op(ctx, f); err != nil {
		c.state = saved
		return err
	}
	if c.journal != nil && len(f.events) > 0 {
		if err := c.journal.Commit(ctx, c.snapshotOf(&c.state), f.events); err != nil {
			c.state = saved
			return fmt.Errorf("fundme: commit: %w", err)
		}
	}
	return nil
}

// view runs a read against the current state, inside the caller's frame when
// there is one.
func (c *Contract) view(ctx context.Context, read func(l *ledger)) {
	if c.frameFrom(ctx) != nil {
		read(&c.state)
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	read(&c.state)
}
