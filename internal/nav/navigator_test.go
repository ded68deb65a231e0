package nav

import (
	"context"
	"testing"
	"time"

	"github.com/veidt/termnav/internal/gateway"
	"github.com/veidt/termnav/internal/models"
)

// slowGateway blocks each ListDirectory call until the per-path release
// channel is closed, so tests control response ordering exactly.
type slowGateway struct {
	gateway.Gateway
	release map[string]chan struct{}
}

func (g *slowGateway) ListDirectory(ctx context.Context, path string) ([]models.DirectoryEntry, error) {
	if ch, ok := g.release[path]; ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []models.DirectoryEntry{{Name: "marker", Path: path + "/marker", IsDir: true}}, nil
}

func recvListing(t *testing.T, n *Navigator) Listing {
	t.Helper()
	select {
	case l := <-n.Listings():
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for listing")
		return Listing{}
	}
}

func TestNavigatorDropsStaleResponses(t *testing.T) {
	gw := &slowGateway{release: map[string]chan struct{}{
		"/slow": make(chan struct{}),
		"/fast": make(chan struct{}),
	}}
	n := NewNavigator(gw)
	defer n.Close()

	slowSeq := n.Navigate("/slow")
	fastSeq := n.Navigate("/fast")
	if fastSeq <= slowSeq {
		t.Fatalf("sequence numbers not monotonic: %d then %d", slowSeq, fastSeq)
	}

	// The newer navigation completes first and is delivered.
	close(gw.release["/fast"])
	l := recvListing(t, n)
	if l.Seq != fastSeq || l.Path != "/fast" {
		t.Fatalf("listing = %+v, want the fast navigation", l)
	}

	// The older response arrives afterwards and must be dropped.
	close(gw.release["/slow"])
	select {
	case stale := <-n.Listings():
		t.Fatalf("stale listing delivered: %+v", stale)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestNavigatorDeliversInOrderWhenResponsesAreOrdered(t *testing.T) {
	gw := &slowGateway{release: map[string]chan struct{}{}}
	n := NewNavigator(gw)
	defer n.Close()

	a := n.Navigate("/a")
	la := recvListing(t, n)
	if la.Seq != a || la.Path != "/a" || len(la.Entries) != 1 {
		t.Fatalf("listing = %+v", la)
	}

	b := n.Navigate("/b")
	lb := recvListing(t, n)
	if lb.Seq != b || lb.Path != "/b" {
		t.Fatalf("listing = %+v", lb)
	}
}

type failingGateway struct {
	gateway.Gateway
}

func (failingGateway) ListDirectory(context.Context, string) ([]models.DirectoryEntry, error) {
	return nil, context.DeadlineExceeded
}

func TestNavigatorReportsErrorsAsListings(t *testing.T) {
	n := NewNavigator(failingGateway{})
	defer n.Close()

	n.Navigate("/gone")
	l := recvListing(t, n)
	if l.Err == "" || l.Entries != nil {
		t.Fatalf("listing = %+v, want error carried in the listing", l)
	}
}
