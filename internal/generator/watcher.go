package generator

import (
	"sync"
	"time"

	"github.com/lovincyrus/passwords101/internal/crypto"
)

// DefaultDebounce is the quiet period after the last master-secret edit
// before the reference code is recomputed.
const DefaultDebounce = 500 * time.Millisecond

// ReferenceCodeWatcher recomputes the reference code when the master secret
// changes, coalescing bursts of edits into one computation.
type ReferenceCodeWatcher struct {
	mu     sync.Mutex
	delay  time.Duration
	timer  *time.Timer
	gen    uint64 // bumped by Changed and Stop; stale timers compare against it
	secret string
	notify func(code string)

	running sync.WaitGroup
}

// NewReferenceCodeWatcher creates a watcher that reports codes to notify.
// A non-positive delay selects DefaultDebounce.
func NewReferenceCodeWatcher(delay time.Duration, notify func(code string)) *ReferenceCodeWatcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &ReferenceCodeWatcher{delay: delay, notify: notify}
}

// Start computes the code for secret right away, without debouncing.
func (w *ReferenceCodeWatcher) Start(secret string) {
	w.mu.Lock()
	w.secret = secret
	gen := w.gen
	w.mu.Unlock()
	w.fire(gen)
}

// Changed records a new master secret and (re)arms the timer. Each call
// pushes the recomputation back by the full delay.
func (w *ReferenceCodeWatcher) Changed(secret string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.secret = secret
	if w.timer != nil {
		w.timer.Stop()
	}
	w.gen++
	gen := w.gen
	w.timer = time.AfterFunc(w.delay, func() { w.fire(gen) })
}

// Stop discards a pending recomputation and waits for one already
// notifying. It must not be called from notify.
func (w *ReferenceCodeWatcher) Stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.gen++
	w.mu.Unlock()
	w.running.Wait()
}

func (w *ReferenceCodeWatcher) fire(gen uint64) {
	w.mu.Lock()
	if gen != w.gen {
		w.mu.Unlock()
		return
	}
	w.running.Add(1)
	secret := w.secret
	notify := w.notify
	w.mu.Unlock()
	defer w.running.Done()

	if notify != nil {
		notify(crypto.ReferenceCode(secret))
	}
}
