// Package nav coordinates directory listings for an interactive consumer:
// every navigation gets a sequence number and only the newest listing is
// ever delivered, so a slow response can never overwrite a fast one.
package nav

import (
	"context"
	"sync/atomic"

	"github.com/veidt/termnav/internal/gateway"
	"github.com/veidt/termnav/internal/models"
)

// Listing is one delivered directory view. Err carries the failure message
// when the underlying listing failed; Entries is nil in that case.
type Listing struct {
	Seq     uint64                  `json:"seq"`
	Path    string                  `json:"path"`
	Entries []models.DirectoryEntry `json:"entries,omitempty"`
	Err     string                  `json:"error,omitempty"`
}

// Navigator serializes navigation requests against a gateway. Listings are
// fetched concurrently but delivered in order of issue: a response whose
// sequence number is older than one already applied is dropped.
type Navigator struct {
	gw  gateway.Gateway
	seq atomic.Uint64

	requests chan request
	out      chan Listing
	stop     chan struct{}
	stopped  chan struct{}
}

type request struct {
	seq  uint64
	path string
}

// NewNavigator starts the delivery loop; the caller must Close it.
func NewNavigator(gw gateway.Gateway) *Navigator {
	n := &Navigator{
		gw:       gw,
		requests: make(chan request, 16),
		out:      make(chan Listing, 16),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go n.run()
	return n
}

// Navigate requests a listing of path and returns its sequence number.
func (n *Navigator) Navigate(path string) uint64 {
	seq := n.seq.Add(1)
	select {
	case n.requests <- request{seq: seq, path: path}:
	case <-n.stop:
	}
	return seq
}

// Listings returns the channel of delivered listings.
func (n *Navigator) Listings() <-chan Listing {
	return n.out
}

// Close stops the delivery loop and waits for it to exit.
func (n *Navigator) Close() {
	close(n.stop)
	<-n.stopped
}

func (n *Navigator) run() {
	defer close(n.stopped)

	responses := make(chan Listing, 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var applied uint64
	for {
		select {
		case req := <-n.requests:
			go func() {
				l := Listing{Seq: req.seq, Path: req.path}
				entries, err := n.gw.ListDirectory(ctx, req.path)
				if err != nil {
					l.Err = err.Error()
				} else {
					l.Entries = entries
				}
				select {
				case responses <- l:
				case <-n.stop:
				}
			}()
		case l := <-responses:
			if l.Seq <= applied {
				continue // stale: a newer navigation already landed
			}
			applied = l.Seq
			select {
			case n.out <- l:
			case <-n.stop:
				return
			}
		case <-n.stop:
			return
		}
	}
}
