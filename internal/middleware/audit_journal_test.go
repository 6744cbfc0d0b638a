package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/skyfare/farecalc-service/internal/domain/model"
	"github.com/skyfare/farecalc-service/internal/mocks"
)

func TestAuditJournal_DrainsOnStop(t *testing.T) {
	audit := mocks.NewMockEntryAuditService(t)
	audit.On("Record", mock.Anything, mock.Anything).Return(nil)

	j := NewAuditJournal(audit, AuditJournalConfig{
		BufferSize:   10,
		NumWriters:   2,
		WriteTimeout: time.Second,
	})

	for i := 0; i < 5; i++ {
		ok := j.Append(&model.EntryAudit{Entry: "WP", RequestID: "req"})
		assert.True(t, ok)
	}
	j.Stop()

	enqueued, dropped, written, errors := j.Stats()
	assert.Equal(t, int64(5), enqueued)
	assert.Equal(t, int64(0), dropped)
	assert.Equal(t, int64(5), written)
	assert.Equal(t, int64(0), errors)
	audit.AssertNumberOfCalls(t, "Record", 5)
}

func TestAuditJournal_DropsWhenBufferFull(t *testing.T) {
	// No writers, so nothing drains the single-slot buffer.
	j := NewAuditJournal(&mocks.MockEntryAuditService{}, AuditJournalConfig{
		BufferSize:   1,
		NumWriters:   0,
		WriteTimeout: time.Second,
	})

	assert.True(t, j.Append(&model.EntryAudit{Entry: "WQ"}))
	assert.False(t, j.Append(&model.EntryAudit{Entry: "WQ"}))

	enqueued, dropped, _, _ := j.Stats()
	assert.Equal(t, int64(1), enqueued)
	assert.Equal(t, int64(1), dropped)
}

func TestAuditJournal_NilService(t *testing.T) {
	assert.Nil(t, NewAuditJournal(nil, DefaultAuditJournalConfig()))
}
