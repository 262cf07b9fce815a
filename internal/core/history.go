package core

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
)

// History keeps a bounded, time-decaying log of records per channel.
// Each channel has its own lock, so sweeping one channel never blocks an
// append on another.
type History struct {
	maxLen int
	maxAge time.Duration

	mu       sync.RWMutex
	channels map[string]*historyBuffer
}

type historyBuffer struct {
	mu      sync.Mutex
	records []Record
}

// NewHistory constructs a history store bounded by maxLen records and
// maxAge per record.
func NewHistory(maxLen int, maxAge time.Duration) *History {
	return &History{
		maxLen:   maxLen,
		maxAge:   maxAge,
		channels: make(map[string]*historyBuffer),
	}
}

// Append adds rec to the tail of its channel's buffer, evicting from the
// head once the buffer exceeds the length bound.
func (h *History) Append(rec Record) {
	buf := h.buffer(rec.Channel)

	buf.mu.Lock()
	defer buf.mu.Unlock()

	buf.records = append(buf.records, rec)
	if overflow := len(buf.records) - h.maxLen; overflow > 0 {
		buf.records = buf.records[overflow:]
	}
}

// Get returns the channel's records oldest first. The result is a copy;
// unknown channels yield an empty slice, never an error.
func (h *History) Get(channel string) []Record {
	h.mu.RLock()
	buf, ok := h.channels[channel]
	h.mu.RUnlock()
	if !ok {
		return nil
	}

	buf.mu.Lock()
	defer buf.mu.Unlock()

	out := make([]Record, len(buf.records))
	copy(out, buf.records)
	return out
}

// Sweep drops every record older than the age bound as of now, preserving
// the relative order of survivors. Channels are swept one at a time under
// their own lock.
func (h *History) Sweep(now time.Time) {
	h.mu.RLock()
	buffers := lo.Values(h.channels)
	h.mu.RUnlock()

	for _, buf := range buffers {
		buf.mu.Lock()
		buf.records = lo.Filter(buf.records, func(rec Record, _ int) bool {
			return now.Sub(rec.CreatedAt) < h.maxAge
		})
		buf.mu.Unlock()
	}
}

// RunSweeper sweeps on every tick of interval until ctx is cancelled.
func (h *History) RunSweeper(ctx context.Context, interval time.Duration, now func() time.Time) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Sweep(now())
		}
	}
}

func (h *History) buffer(channel string) *historyBuffer {
	h.mu.RLock()
	buf, ok := h.channels[channel]
	h.mu.RUnlock()
	if ok {
		return buf
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if buf, ok = h.channels[channel]; ok {
		return buf
	}
	buf = &historyBuffer{}
	h.channels[channel] = buf
	return buf
}
