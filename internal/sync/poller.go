package sync

import (
	"context"
	"fmt"
	"io"
	"strings"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/nhle/kanban/internal/model"
)

// fetchTimeout is the maximum time allowed for a single snapshot read.
const fetchTimeout = 10 * time.Second

// BoardLoader reads a board with its lists and cards.
type BoardLoader interface {
	GetBoardSnapshot(ctx context.Context, id string) (*model.BoardSnapshot, error)
}

// SnapshotMsg is a tea.Msg sent when the watched board changed since the
// last poll, or when reading it failed.
type SnapshotMsg struct {
	Snapshot *model.BoardSnapshot
	Err      error
}

// Poller re-reads one board on an interval so that writes made by other
// clients show up without a manual refresh. Unchanged boards produce no
// message.
type Poller struct {
	loader    BoardLoader
	boardID   string
	interval  time.Duration
	log       *logrus.Entry
	resultCh  chan SnapshotMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
	lastSig   string
}

// New creates a Poller for boardID. A nil log discards messages.
func New(loader BoardLoader, boardID string, interval time.Duration, log *logrus.Entry) *Poller {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Poller{
		loader:    loader,
		boardID:   boardID,
		interval:  interval,
		log:       log.WithField("component", "poller"),
		resultCh:  make(chan SnapshotMsg, 4),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the polling goroutine and returns a command that waits
// for the first change.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.poll()

	return p.waitForResult()
}

// Stop halts the polling goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate poll.
func (p *Poller) Refresh() {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// a poll is already pending
	}
}

// Observe records a snapshot the caller loaded itself so the next poll
// does not report it again.
func (p *Poller) Observe(snap *model.BoardSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSig = signature(snap)
}

func (p *Poller) poll() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.fetch()
		case <-p.triggerCh:
			p.fetch()
		}
	}
}

// fetch reads the board and sends a SnapshotMsg when its signature differs
// from the last one seen.
func (p *Poller) fetch() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	snap, err := p.loader.GetBoardSnapshot(ctx, p.boardID)
	if err != nil {
		p.log.WithError(err).WithField("board_id", p.boardID).Warn("board poll failed")
		p.sendResult(SnapshotMsg{Err: err})
		return
	}

	sig := signature(snap)
	p.mu.Lock()
	changed := sig != p.lastSig
	p.lastSig = sig
	p.mu.Unlock()

	if changed {
		p.log.WithField("board_id", p.boardID).Debug("board changed")
		p.sendResult(SnapshotMsg{Snapshot: snap})
	}
}

// sendResult sends a SnapshotMsg on the result channel without blocking.
func (p *Poller) sendResult(msg SnapshotMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case result := <-p.resultCh:
			return result
		case <-p.stopCh:
			return nil
		}
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next change.
// Call it after handling a SnapshotMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}

// signature identifies the visible state of a board: every list and card
// id with its position, parent and last update.
func signature(snap *model.BoardSnapshot) string {
	if snap == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d", snap.Board.Title, snap.Board.UpdatedAt.UnixNano())
	for _, l := range snap.Lists {
		fmt.Fprintf(&b, "|L%s:%d:%d", l.ID, l.Order, l.UpdatedAt.UnixNano())
		for _, c := range l.Cards {
			fmt.Fprintf(&b, "|C%s:%s:%d:%d", c.ID, c.ListID, c.Order, c.UpdatedAt.UnixNano())
		}
	}
	return b.String()
}
