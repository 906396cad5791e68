package metrics

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecordAndSnapshot(t *testing.T) {
	m := &Metrics{}

	m.RecordSplit(5, nil)
	m.RecordSplit(0, errors.New("bad threshold"))
	m.RecordRecover(nil)
	m.RecordRecover(errors.New("duplicate index"))
	m.RecordStoreOp(nil)
	m.RecordAuth(errors.New("bad password"))

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.SplitsTotal)
	assert.Equal(t, int64(1), snap.SplitErrors)
	assert.Equal(t, int64(5), snap.SharesIssued)
	assert.Equal(t, int64(2), snap.RecoversTotal)
	assert.Equal(t, int64(1), snap.RecoverErrors)
	assert.Equal(t, int64(1), snap.StoreOpsTotal)
	assert.Equal(t, int64(1), snap.AuthAttempts)
	assert.Equal(t, int64(1), snap.AuthFailures)
}

func TestReset(t *testing.T) {
	m := &Metrics{}
	m.RecordSplit(3, nil)
	m.Reset()
	assert.Equal(t, Snapshot{}, m.Snapshot())
}

func TestConcurrentRecording(t *testing.T) {
	m := &Metrics{}
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordSplit(1, nil)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(1600), m.Snapshot().SplitsTotal)
}
