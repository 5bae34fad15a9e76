package sync

import (
	"context"
	"errors"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
)

type fakeLoader struct {
	mu   gosync.Mutex
	snap *model.BoardSnapshot
	err  error
}

func (f *fakeLoader) GetBoardSnapshot(context.Context, string) (*model.BoardSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.err
}

func (f *fakeLoader) set(snap *model.BoardSnapshot, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap, f.err = snap, err
}

func snapshot(cardOrder int) *model.BoardSnapshot {
	return &model.BoardSnapshot{
		Board: model.Board{ID: "b1", Title: "Board"},
		Lists: []model.ListWithCards{{
			List:  model.List{ID: "l1", BoardID: "b1"},
			Cards: []model.Card{{ID: "c1", ListID: "l1", Order: cardOrder}},
		}},
	}
}

func TestFetch_SendsOnlyChanges(t *testing.T) {
	loader := &fakeLoader{snap: snapshot(0)}
	p := New(loader, "b1", time.Hour, nil)

	p.fetch()
	require.Len(t, p.resultCh, 1)
	msg := <-p.resultCh
	assert.NoError(t, msg.Err)
	assert.Equal(t, "c1", msg.Snapshot.Lists[0].Cards[0].ID)

	p.fetch()
	assert.Empty(t, p.resultCh, "unchanged board is not reported")

	loader.set(snapshot(3), nil)
	p.fetch()
	require.Len(t, p.resultCh, 1)
	msg = <-p.resultCh
	assert.Equal(t, 3, msg.Snapshot.Lists[0].Cards[0].Order)
}

func TestFetch_ReportsErrors(t *testing.T) {
	loader := &fakeLoader{err: errors.New("db gone")}
	p := New(loader, "b1", time.Hour, nil)

	p.fetch()
	require.Len(t, p.resultCh, 1)
	msg := <-p.resultCh
	assert.EqualError(t, msg.Err, "db gone")
}

func TestObserveSuppressesKnownSnapshot(t *testing.T) {
	loader := &fakeLoader{snap: snapshot(1)}
	p := New(loader, "b1", time.Hour, nil)

	p.Observe(snapshot(1))
	p.fetch()
	assert.Empty(t, p.resultCh)
}

func TestStartRefreshStop(t *testing.T) {
	loader := &fakeLoader{snap: snapshot(0)}
	p := New(loader, "b1", time.Hour, nil)

	wait := p.Start()
	require.NotNil(t, wait)
	assert.Nil(t, p.Start(), "second start is a no-op")

	p.Refresh()
	msg, ok := wait().(SnapshotMsg)
	require.True(t, ok)
	assert.NotNil(t, msg.Snapshot)

	p.Stop()
	assert.Nil(t, p.WaitForNextResult()(), "waiting after stop returns nil")
	p.Stop()
}
