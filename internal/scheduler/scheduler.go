package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"CryptoPulse/internal/asset"
	"CryptoPulse/internal/dashboard"
	"CryptoPulse/internal/notifier"
)

// Dashboard is the part of the dashboard the scheduler drives.
type Dashboard interface {
	Select(assetID string) (<-chan struct{}, error)
	Refresh() (<-chan struct{}, error)
	State() dashboard.State
}

// ListingSyncer refreshes the asset catalog from market listings.
type ListingSyncer interface {
	SyncListings(ctx context.Context, limit int) (int, error)
}

// Sender delivers formatted messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks and answers chat commands.
type Scheduler struct {
	Cron        *cron.Cron
	Dashboard   Dashboard
	Listings    ListingSyncer
	Catalog     *asset.Catalog
	Notifier    Sender
	ListingSize int
	Ctx         context.Context
}

// NewScheduler creates a new Scheduler. notifier may be nil, in which case
// no digest is registered.
func NewScheduler(ctx context.Context, d Dashboard, listings ListingSyncer, catalog *asset.Catalog, n Sender, listingSize int) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Dashboard:   d,
		Listings:    listings,
		Catalog:     catalog,
		Notifier:    n,
		ListingSize: listingSize,
		Ctx:         ctx,
	}
}

// RegisterAll registers the refresh, listings and digest tasks.
func (s *Scheduler) RegisterAll(refreshCron, listingsCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(listingsCron, s.listingsTask); err != nil {
		return fmt.Errorf("register listings task: %w", err)
	}
	if s.Notifier != nil {
		if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
			return fmt.Errorf("register digest task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// SyncListingsNow runs the listings task immediately.
func (s *Scheduler) SyncListingsNow() {
	s.listingsTask()
}

func (s *Scheduler) refreshTask() {
	if _, err := s.Dashboard.Refresh(); err != nil {
		log.Errorf("scheduled refresh: %v", err)
	}
}

func (s *Scheduler) listingsTask() {
	if s.Listings == nil {
		return
	}
	n, err := s.Listings.SyncListings(s.Ctx, s.ListingSize)
	if err != nil {
		log.Warnf("listings sync failed: %v", err)
		return
	}
	if n > 0 {
		log.Infof("catalog synced with %d listings", n)
	}
}

func (s *Scheduler) digestTask() {
	log.Info("running digest task")
	done, err := s.Dashboard.Refresh()
	if err != nil {
		log.Errorf("digest refresh: %v", err)
		return
	}
	select {
	case <-done:
	case <-s.Ctx.Done():
		return
	}
	s.trySend(s.report())
}

func (s *Scheduler) report() string {
	st := s.Dashboard.State()
	switch st.Status {
	case dashboard.StatusError:
		msg := fmt.Sprintf("❌ Refresh for %s failed: %s", html.EscapeString(st.Selection), html.EscapeString(st.LastError))
		if st.View != nil {
			msg += "\n\nLast good data:\n\n" + notifier.FormatInsightReport(st.View, st.User)
		}
		return msg
	case dashboard.StatusLoading:
		return fmt.Sprintf("⏳ %s is still loading, try again shortly.", html.EscapeString(st.Selection))
	default:
		return notifier.FormatInsightReport(st.View, st.User)
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	name, arg, _ := strings.Cut(strings.TrimSpace(command), " ")
	// Commands addressed to the bot in groups arrive as /cmd@botname.
	name, _, _ = strings.Cut(name, "@")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/select":
		if arg == "" {
			return "Usage: /select &lt;asset&gt;, e.g. /select ethereum or /select ETH"
		}
		id := s.Catalog.Resolve(arg)
		done, err := s.Dashboard.Select(id)
		if err != nil {
			return "❌ " + html.EscapeString(err.Error())
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ""
		}
		return s.report()
	case "/insights":
		return s.report()
	case "/refresh":
		done, err := s.Dashboard.Refresh()
		if err != nil {
			return "❌ " + html.EscapeString(err.Error())
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ""
		}
		return s.report()
	case "/assets":
		return notifier.FormatAssetList(s.Catalog.List(), s.Dashboard.State().Selection)
	default:
		return "Available commands:\n• /insights\n• /select &lt;asset&gt;\n• /refresh\n• /assets"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Errorf("send notification: %v", err)
	}
}
