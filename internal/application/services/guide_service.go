package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/githubixx/xmltv-epg-go/internal/domain"
	"github.com/githubixx/xmltv-epg-go/internal/ports"
)

// GuideService coordinates guide refreshes and answers schedule queries
// against the most recently fetched guide.
//
// The guide is swapped atomically on a successful refresh; a failed refresh
// keeps serving the previous guide and records the error. At most one
// refresh runs at a time.
type GuideService struct {
	client          ports.GuideClient
	refreshInterval time.Duration
	lookahead       time.Duration
	primetime       string
	logger          *slog.Logger

	// now is replaceable for tests.
	now func() time.Time

	mu          sync.RWMutex
	guide       *domain.Guide
	lastRefresh time.Time
	lastError   string
	refreshing  bool

	loopCancel context.CancelFunc
	loopDone   chan struct{}
}

// tickInterval is how often the background loop checks for staleness.
const tickInterval = 60 * time.Second

// GuideStatus is a snapshot of the service state for status endpoints.
type GuideStatus struct {
	HasGuide     bool      `json:"has_guide"`
	GuideName    string    `json:"guide_name,omitempty"`
	GuideURL     string    `json:"guide_url,omitempty"`
	ChannelCount int       `json:"channel_count"`
	ProgramCount int       `json:"program_count"`
	LastRefresh  time.Time `json:"last_refresh"`
	LastError    string    `json:"last_error,omitempty"`
	Refreshing   bool      `json:"refreshing"`
}

// NewGuideService creates a guide service.
//
// refreshInterval controls RefreshIfStale and the background loop;
// lookahead shifts CurrentTime into the future so upcoming programs appear
// slightly early; primetime is a HH:MM or HH:MM:SS wall-clock time.
func NewGuideService(client ports.GuideClient, refreshInterval, lookahead time.Duration, primetime string, logger *slog.Logger) *GuideService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuideService{
		client:          client,
		refreshInterval: refreshInterval,
		lookahead:       lookahead,
		primetime:       primetime,
		logger:          logger,
		now:             time.Now,
	}
}

// Refresh fetches a new guide and swaps it in on success. A refresh already
// in flight makes this call a no-op.
func (s *GuideService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		s.logger.Debug("refresh already in flight, skipping")
		return nil
	}
	s.refreshing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
	}()

	s.logger.Info("refreshing guide")
	guide, err := s.client.FetchGuide(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRefresh = s.now()

	if err != nil {
		s.lastError = err.Error()
		s.logger.Error("guide refresh failed", "error", err)
		return err
	}

	s.guide = guide
	s.lastError = ""
	s.logger.Info("guide refreshed",
		"channels", len(guide.Channels()),
		"programs", len(guide.Programs()))
	return nil
}

// RefreshIfStale refreshes only when the last attempt is older than the
// refresh interval (or no guide has been loaded yet).
func (s *GuideService) RefreshIfStale(ctx context.Context) error {
	s.mu.RLock()
	stale := s.guide == nil || s.now().Sub(s.lastRefresh) >= s.refreshInterval
	s.mu.RUnlock()

	if !stale {
		return nil
	}
	return s.Refresh(ctx)
}

// Start launches the background refresh loop. Stop tears it down.
func (s *GuideService) Start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	s.loopCancel = cancel
	s.loopDone = make(chan struct{})

	go func() {
		defer close(s.loopDone)
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if err := s.RefreshIfStale(loopCtx); err != nil {
					s.logger.Warn("scheduled refresh failed", "error", err)
				}
			}
		}
	}()
	s.logger.Info("guide refresh loop started", "interval", s.refreshInterval)
}

// Stop halts the background refresh loop and waits for it to exit.
func (s *GuideService) Stop() {
	if s.loopCancel == nil {
		return
	}
	s.loopCancel()
	<-s.loopDone
	s.loopCancel = nil
	s.logger.Info("guide refresh loop stopped")
}

// Guide returns the current guide, or nil before the first successful
// refresh.
func (s *GuideService) Guide() *domain.Guide {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guide
}

// ActualNow returns the wall-clock time.
func (s *GuideService) ActualNow() time.Time {
	return s.now()
}

// CurrentTime is the instant schedule queries evaluate at: wall-clock time
// shifted by the lookahead, so a program about to start already counts as
// running.
func (s *GuideService) CurrentTime() time.Time {
	return s.now().Add(s.lookahead)
}

// GetCurrentProgram returns the program airing on the channel at
// CurrentTime. A nil program with nil error means the schedule has a gap.
func (s *GuideService) GetCurrentProgram(channelID string) (*domain.Program, error) {
	return s.GetProgramAt(channelID, s.CurrentTime())
}

// GetNextProgram returns the first program starting at or after CurrentTime.
func (s *GuideService) GetNextProgram(channelID string) (*domain.Program, error) {
	ch, err := s.channel(channelID)
	if err != nil {
		return nil, err
	}
	return ch.GetNextProgram(s.CurrentTime()), nil
}

// GetProgramAt returns the program airing on the channel at an explicit
// instant.
func (s *GuideService) GetProgramAt(channelID string, at time.Time) (*domain.Program, error) {
	ch, err := s.channel(channelID)
	if err != nil {
		return nil, err
	}
	return ch.GetCurrentProgram(at), nil
}

// GetPrimetimeProgram returns the program airing at today's primetime.
func (s *GuideService) GetPrimetimeProgram(channelID string) (*domain.Program, error) {
	return s.GetProgramAt(channelID, s.primetimeToday())
}

// primetimeToday resolves the configured primetime against today's date in
// local time. An unparseable value falls back to 20:00.
func (s *GuideService) primetimeToday() time.Time {
	hour, minute, second := 20, 0, 0

	parsed := false
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, strings.TrimSpace(s.primetime)); err == nil {
			hour, minute, second = t.Hour(), t.Minute(), t.Second()
			parsed = true
			break
		}
	}
	if !parsed && strings.TrimSpace(s.primetime) != "" {
		s.logger.Warn("invalid primetime, falling back to 20:00", "primetime", s.primetime)
	}

	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, second, 0, now.Location())
}

// Status reports the service state for the status endpoint.
func (s *GuideService) Status() GuideStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := GuideStatus{
		LastRefresh: s.lastRefresh,
		LastError:   s.lastError,
		Refreshing:  s.refreshing,
	}
	if s.guide != nil {
		st.HasGuide = true
		st.GuideName = s.guide.Name()
		st.GuideURL = s.guide.URL()
		st.ChannelCount = len(s.guide.Channels())
		st.ProgramCount = len(s.guide.Programs())
	}
	return st
}

func (s *GuideService) channel(channelID string) (*domain.Channel, error) {
	s.mu.RLock()
	guide := s.guide
	s.mu.RUnlock()

	if guide == nil {
		return nil, domain.ErrUnavailable
	}
	ch := guide.GetChannel(channelID)
	if ch == nil {
		return nil, fmt.Errorf("%w: channel %q", domain.ErrNotFound, channelID)
	}
	return ch, nil
}
