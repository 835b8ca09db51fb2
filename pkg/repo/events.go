package repo

import "github.com/driftwork/drift/pkg/core"

// notifier fans the aggregate has-changes flag out to subscribers,
// deduplicating so listeners only see transitions.
type notifier struct {
	fns  []core.ModifiedFunc
	last bool
}

func (n *notifier) subscribe(fn core.ModifiedFunc) {
	if fn != nil {
		n.fns = append(n.fns, fn)
	}
}

func (n *notifier) publish(hasChanges bool) {
	if hasChanges == n.last {
		return
	}
	n.last = hasChanges
	for _, fn := range n.fns {
		fn(hasChanges)
	}
}
