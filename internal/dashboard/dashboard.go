// Package dashboard owns the selection and the latest refresh result, and
// makes sure only the most recently started refresh is ever applied.
package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"CryptoPulse/internal/asset"
	"CryptoPulse/internal/metrics"
	"CryptoPulse/internal/model"
)

var (
	// ErrEmptySelection is returned when selecting a blank asset.
	ErrEmptySelection = errors.New("asset selection is empty")
	// ErrUserAlreadySet is returned when a user identity was already accepted.
	ErrUserAlreadySet = errors.New("user already set")
	// ErrInvalidUser is returned for an identity without a name or with a
	// malformed email.
	ErrInvalidUser = errors.New("invalid user")
)

// Collector builds a complete View for one asset.
type Collector interface {
	Collect(ctx context.Context, assetID string) (*model.View, error)
}

// Dashboard is safe for concurrent use.
type Dashboard struct {
	mu        sync.Mutex
	ctx       context.Context
	collector Collector
	metrics   *metrics.Metrics
	state     State
	cancel    context.CancelFunc
	subs      map[int]chan *model.View
	nextSub   int
	wg        sync.WaitGroup
}

// New creates a dashboard with defaultAsset selected. No refresh runs until
// Select or Refresh is called. Cycles are cancelled when ctx is done.
func New(ctx context.Context, collector Collector, defaultAsset string, m *metrics.Metrics) *Dashboard {
	return &Dashboard{
		ctx:       ctx,
		collector: collector,
		metrics:   m,
		state: State{
			Status:    StatusIdle,
			Selection: asset.Normalize(defaultAsset),
		},
		subs: make(map[int]chan *model.View),
	}
}

// State returns a copy of the current state.
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Select switches the active asset and starts a refresh cycle for it, which
// supersedes any cycle still in flight. The returned channel is closed when
// the new cycle finishes, whether or not its result was applied.
func (d *Dashboard) Select(assetID string) (<-chan struct{}, error) {
	id := asset.Normalize(assetID)
	if id == "" {
		return nil, ErrEmptySelection
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Selection = id
	return d.startLocked(), nil
}

// Refresh starts a new cycle for the current selection.
func (d *Dashboard) Refresh() (<-chan struct{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.Selection == "" {
		return nil, ErrEmptySelection
	}
	return d.startLocked(), nil
}

func (d *Dashboard) startLocked() <-chan struct{} {
	if d.cancel != nil {
		d.cancel()
	}
	d.state.Generation++
	d.state.Status = StatusLoading
	d.state.LastError = ""

	ctx, cancel := context.WithCancel(d.ctx)
	d.cancel = cancel
	done := make(chan struct{})
	d.wg.Add(1)
	go d.run(ctx, cancel, d.state.Generation, d.state.Selection, done)
	return done
}

func (d *Dashboard) run(ctx context.Context, cancel context.CancelFunc, gen uint64, assetID string, done chan struct{}) {
	defer d.wg.Done()
	defer close(done)
	defer cancel()

	started := time.Now()
	entry := log.WithFields(log.Fields{"asset": assetID, "generation": gen})
	entry.Info("refresh started")

	view, err := d.collector.Collect(ctx, assetID)

	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.state.Generation {
		entry.Info("refresh superseded, result discarded")
		d.metrics.ObserveRefresh(metrics.RefreshStale, started)
		return
	}
	d.cancel = nil
	if err != nil {
		d.state.Status = StatusError
		d.state.LastError = err.Error()
		entry.Errorf("refresh failed: %v", err)
		d.metrics.ObserveRefresh(metrics.RefreshFailed, started)
		return
	}

	d.state.View = view
	d.state.Status = StatusReady
	d.state.UpdatedAt = time.Now()
	entry.WithField("refresh_id", view.RefreshID).Infof("refresh applied in %v", time.Since(started).Round(time.Millisecond))
	d.metrics.ObserveRefresh(metrics.RefreshApplied, started)
	d.publishLocked(view)
}

// Subscribe returns a channel that receives every applied View. Slow
// readers only see the latest one. The returned func unsubscribes and
// closes the channel.
func (d *Dashboard) Subscribe() (<-chan *model.View, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextSub
	d.nextSub++
	ch := make(chan *model.View, 1)
	d.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.subs, id)
			close(ch)
		})
	}
}

func (d *Dashboard) publishLocked(view *model.View) {
	for _, ch := range d.subs {
		select {
		case ch <- view:
			continue
		default:
		}
		// Drop the unread View in favour of the new one.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- view:
		default:
		}
	}
}

// SetUser accepts the display identity once.
func (d *Dashboard) SetUser(u model.User) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if u.Name == "" {
		return errors.Join(ErrInvalidUser, errors.New("name is required"))
	}
	if u.Email != "" && !strings.Contains(u.Email, "@") {
		return errors.Join(ErrInvalidUser, errors.New("email is malformed"))
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.User != nil {
		return ErrUserAlreadySet
	}
	d.state.User = &u
	log.Infof("user %q registered", u.Name)
	return nil
}

// Close cancels the in-flight cycle and waits for all cycles to finish.
func (d *Dashboard) Close() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()
	d.wg.Wait()
}
