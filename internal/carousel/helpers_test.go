package carousel

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"testing"
	"time"
)

// recordingSurface checks that every Place happens between Hide and Show.
type recordingSurface struct {
	bounds image.Rectangle
	hidden bool
	placed int
	shows  int
	leaked int // Place calls outside Hide/Show
}

func newRecordingSurface(w, h int) *recordingSurface {
	return &recordingSurface{bounds: image.Rect(0, 0, w, h)}
}

func (s *recordingSurface) Bounds() image.Rectangle { return s.bounds }
func (s *recordingSurface) Hide()                   { s.hidden = true }
func (s *recordingSurface) Show() {
	s.hidden = false
	s.shows++
}
func (s *recordingSurface) Place(*Item) {
	s.placed++
	if !s.hidden {
		s.leaked++
	}
}

type textSink struct {
	mu   sync.Mutex
	text string
	sets int
}

func (s *textSink) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.sets++
}

func (s *textSink) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func testSources(n int) []Source {
	src := make([]Source, n)
	for i := range src {
		src[i] = Source{
			Src:   fmt.Sprintf("img%d.png", i),
			Alt:   fmt.Sprintf("alt %d", i),
			Title: fmt.Sprintf("title %d", i),
			Image: image.NewNRGBA(image.Rect(0, 0, 100, 80)),
		}
	}
	return src
}

func newTestController(t *testing.T, n int, cfg Config) (*Controller, *recordingSurface) {
	t.Helper()
	surf := newRecordingSurface(600, 300)
	ctrl, err := NewController(NewRegistry(testSources(n), cfg, nil, nil), surf, cfg, nil)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl, surf
}

// settle ticks until the controller is idle.
func settle(t *testing.T, c *Controller) int {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if !c.Tick() {
			return i
		}
	}
	t.Fatal("rotation did not converge in 1000 ticks")
	return 0
}

// manualClock hands out tickers and timers fired by the test.
type manualClock struct {
	mu      sync.Mutex
	tickers []*manualTicker
	timers  []*manualTimer
}

type manualTicker struct {
	d       time.Duration
	ch      chan time.Time
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }
func (t *manualTicker) Stop()               { t.stopped = true }

type manualTimer struct {
	d       time.Duration
	ch      chan time.Time
	stopped bool
}

func (t *manualTimer) C() <-chan time.Time { return t.ch }
func (t *manualTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

func (c *manualClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTicker{d: d, ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *manualClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{d: d, ch: make(chan time.Time)}
	c.timers = append(c.timers, t)
	return t
}

func (c *manualClock) ticker(i int) *manualTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 {
		i += len(c.tickers)
	}
	return c.tickers[i]
}

func (c *manualClock) tickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *manualClock) timer(i int) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 {
		i += len(c.timers)
	}
	return c.timers[i]
}

var errTimeout = errors.New("send timed out")

// fire delivers one tick; it returns once the loop has received it.
func fire(ch chan time.Time) error {
	select {
	case ch <- time.Now():
		return nil
	case <-time.After(2 * time.Second):
		return errTimeout
	}
}
