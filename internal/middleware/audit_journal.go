package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skyfare/farecalc-service/internal/domain/model"
	"github.com/skyfare/farecalc-service/internal/logger"
	"github.com/skyfare/farecalc-service/internal/service"
)

// AuditJournalConfig holds configuration for the entry journal writer.
type AuditJournalConfig struct {
	// BufferSize is the size of the record channel buffer.
	BufferSize int
	// NumWriters is the number of goroutines draining the buffer.
	NumWriters int
	// WriteTimeout bounds a single journal write.
	WriteTimeout time.Duration
}

// DefaultAuditJournalConfig returns sensible defaults for the journal writer.
func DefaultAuditJournalConfig() AuditJournalConfig {
	return AuditJournalConfig{
		BufferSize:   1000,
		NumWriters:   4,
		WriteTimeout: 5 * time.Second,
	}
}

// AuditJournal buffers entry records and persists them through a small writer
// pool, so a slow journal store never blocks the pricing path and load spikes
// cannot spawn unbounded goroutines.
type AuditJournal struct {
	audit        service.EntryAuditService
	recordCh     chan *model.EntryAudit
	wg           sync.WaitGroup
	stopCh       chan struct{}
	writeTimeout time.Duration

	enqueued int64
	dropped  int64
	written  int64
	errors   int64
}

// NewAuditJournal creates a journal writer over the given audit service.
func NewAuditJournal(audit service.EntryAuditService, cfg AuditJournalConfig) *AuditJournal {
	if audit == nil {
		return nil
	}

	j := &AuditJournal{
		audit:        audit,
		recordCh:     make(chan *model.EntryAudit, cfg.BufferSize),
		stopCh:       make(chan struct{}),
		writeTimeout: cfg.WriteTimeout,
	}

	for i := 0; i < cfg.NumWriters; i++ {
		j.wg.Add(1)
		go j.writer()
	}

	return j
}

func (j *AuditJournal) writer() {
	defer j.wg.Done()

	for {
		select {
		case rec, ok := <-j.recordCh:
			if !ok {
				return
			}
			j.persist(rec)
		case <-j.stopCh:
			// Drain what is already buffered before stopping.
			for {
				select {
				case rec := <-j.recordCh:
					j.persist(rec)
				default:
					return
				}
			}
		}
	}
}

func (j *AuditJournal) persist(rec *model.EntryAudit) {
	ctx, cancel := context.WithTimeout(context.Background(), j.writeTimeout)
	defer cancel()

	if err := j.audit.Record(ctx, rec); err != nil {
		atomic.AddInt64(&j.errors, 1)
		lg := logger.Logger()
		lg.Warn().Err(err).
			Str("entry", rec.Entry).
			Str("request_id", rec.RequestID).
			Msg("Failed to journal entry")
	} else {
		atomic.AddInt64(&j.written, 1)
	}
}

// Append enqueues an entry record. It reports false when the buffer is full
// and the record was dropped.
func (j *AuditJournal) Append(rec *model.EntryAudit) bool {
	select {
	case j.recordCh <- rec:
		atomic.AddInt64(&j.enqueued, 1)
		return true
	default:
		atomic.AddInt64(&j.dropped, 1)
		return false
	}
}

// Stop shuts the journal down after draining buffered records.
func (j *AuditJournal) Stop() {
	close(j.stopCh)
	j.wg.Wait()
	close(j.recordCh)
}

// Stats returns journal writer counters.
func (j *AuditJournal) Stats() (enqueued, dropped, written, errors int64) {
	return atomic.LoadInt64(&j.enqueued),
		atomic.LoadInt64(&j.dropped),
		atomic.LoadInt64(&j.written),
		atomic.LoadInt64(&j.errors)
}

var (
	globalJournal   *AuditJournal
	globalJournalMu sync.RWMutex
)

// InitAuditJournal installs the process-wide journal writer.
// Should be called once during application startup.
func InitAuditJournal(audit service.EntryAuditService, cfg AuditJournalConfig) {
	globalJournalMu.Lock()
	defer globalJournalMu.Unlock()

	if globalJournal != nil {
		globalJournal.Stop()
	}
	globalJournal = NewAuditJournal(audit, cfg)
}

// ActiveJournal returns the process-wide journal writer, or nil.
func ActiveJournal() *AuditJournal {
	globalJournalMu.RLock()
	defer globalJournalMu.RUnlock()
	return globalJournal
}

// StopAuditJournal drains and removes the process-wide journal writer.
func StopAuditJournal() {
	globalJournalMu.Lock()
	defer globalJournalMu.Unlock()

	if globalJournal != nil {
		globalJournal.Stop()
		globalJournal = nil
	}
}
