package stackitem

import (
	"context"
	"errors"
	"strconv"
	"testing"

	fairyerrors "github.com/wippyai/fairy-rpc/errors"
)

// fakeFetcher serves pre-built pages and records every call.
type fakeFetcher struct {
	failAt  map[int]error
	pages   [][]PageEntry
	counts  []int
	session string
	iter    string
	calls   int
}

func (f *fakeFetcher) FetchPage(_ context.Context, sessionID, iteratorID string, count int) ([]PageEntry, error) {
	call := f.calls
	f.calls++
	f.session = sessionID
	f.iter = iteratorID
	f.counts = append(f.counts, count)
	if err, ok := f.failAt[call]; ok {
		return nil, err
	}
	if call >= len(f.pages) {
		return nil, nil
	}
	return f.pages[call], nil
}

// intPages builds pages of the given sizes with consecutive integer keys.
func intPages(sizes ...int) [][]PageEntry {
	pages := make([][]PageEntry, len(sizes))
	next := 0
	for p, size := range sizes {
		page := make([]PageEntry, size)
		for i := range page {
			page[i] = PageEntry{
				Key:   Int64Item(int64(next)),
				Value: ByteStringItem([]byte("v" + strconv.Itoa(next))),
			}
			next++
		}
		pages[p] = page
	}
	return pages
}

func TestPager_DrainsUntilShortPage(t *testing.T) {
	f := &fakeFetcher{pages: intPages(100, 100, 37)}
	p := NewPager(f)

	m, err := p.Drain(context.Background(), "session-1", "iter-1")
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 237 {
		t.Errorf("Len = %d, want 237", m.Len())
	}
	if f.calls != 3 {
		t.Errorf("calls = %d, want 3", f.calls)
	}
	for i, count := range f.counts {
		if count != DefaultPageSize {
			t.Errorf("call %d asked for %d entries, want %d", i, count, DefaultPageSize)
		}
	}
	if f.session != "session-1" || f.iter != "iter-1" {
		t.Errorf("fetcher saw session=%q iterator=%q", f.session, f.iter)
	}
	if v, _ := m.Get(236); v != "v236" {
		t.Errorf("m[236] = %v", v)
	}
}

func TestPager_EmptyPageEnds(t *testing.T) {
	f := &fakeFetcher{pages: intPages(100, 0)}
	m, err := NewPager(f).Drain(context.Background(), "s", "i")
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 100 || f.calls != 2 {
		t.Errorf("Len = %d calls = %d, want 100 and 2", m.Len(), f.calls)
	}
}

func TestPager_CustomPageSize(t *testing.T) {
	f := &fakeFetcher{pages: intPages(10, 10, 3)}
	p := NewPager(f, WithPageSize(10))
	if p.PageSize() != 10 {
		t.Fatalf("PageSize = %d", p.PageSize())
	}
	m, err := p.Drain(context.Background(), "s", "i")
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 23 || f.calls != 3 {
		t.Errorf("Len = %d calls = %d", m.Len(), f.calls)
	}
}

func TestPager_DuplicateKeysOverwrite(t *testing.T) {
	f := &fakeFetcher{pages: [][]PageEntry{
		{
			{Key: ByteStringItem([]byte("k")), Value: Int64Item(1)},
			{Key: ByteStringItem([]byte("j")), Value: Int64Item(2)},
		},
	}}
	// A page of two is short for the default size, so a second page is never asked for.
	f.pages[0] = append(f.pages[0], PageEntry{Key: ByteStringItem([]byte("k")), Value: Int64Item(3)})

	m, err := NewPager(f).Drain(context.Background(), "s", "i")
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
	v, _ := m.Get("k")
	assertInt(t, v, 3)
}

func TestPager_TransportFailureFailsWholeDrain(t *testing.T) {
	cause := errors.New("connection reset")
	f := &fakeFetcher{
		pages:  intPages(100, 100, 5),
		failAt: map[int]error{1: cause},
	}

	m, err := NewPager(f).Drain(context.Background(), "s", "i")
	if m != nil {
		t.Errorf("expected no partial result, got %d entries", m.Len())
	}
	if !errors.Is(err, fairyerrors.ErrTransport) {
		t.Errorf("expected transport error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause lost: %v", err)
	}
	if f.calls != 2 {
		t.Errorf("calls = %d, want 2", f.calls)
	}
}

func TestPager_StructuredErrorPassesThrough(t *testing.T) {
	rpcErr := fairyerrors.RPC("traverseiterator", &fairyerrors.RPCError{Code: -32603, Message: "Unknown session"})
	f := &fakeFetcher{failAt: map[int]error{0: rpcErr}}

	_, err := NewPager(f).Drain(context.Background(), "s", "i")
	if !errors.Is(err, fairyerrors.ErrRPC) {
		t.Errorf("expected rpc error to pass through, got %v", err)
	}
}

func TestPager_CanceledContext(t *testing.T) {
	f := &fakeFetcher{pages: intPages(1)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewPager(f).Drain(ctx, "s", "i")
	if !errors.Is(err, fairyerrors.ErrTransport) || !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled transport error, got %v", err)
	}
	if f.calls != 0 {
		t.Errorf("calls = %d, want 0", f.calls)
	}
}

func TestPager_MaxPages(t *testing.T) {
	f := &fakeFetcher{pages: intPages(2, 2, 2, 2)}
	_, err := NewPager(f, WithPageSize(2), WithMaxPages(2)).Drain(context.Background(), "s", "i")
	var fe *fairyerrors.Error
	if !errors.As(err, &fe) || fe.Kind != fairyerrors.KindOverflow {
		t.Errorf("expected overflow, got %v", err)
	}
	if f.calls != 2 {
		t.Errorf("calls = %d, want 2", f.calls)
	}
}

func TestPager_MissingSession(t *testing.T) {
	f := &fakeFetcher{}
	_, err := NewPager(f).Drain(context.Background(), "", "i")
	var fe *fairyerrors.Error
	if !errors.As(err, &fe) || fe.Kind != fairyerrors.KindNotInitialized {
		t.Errorf("expected not initialized, got %v", err)
	}
	if f.calls != 0 {
		t.Errorf("calls = %d, want 0", f.calls)
	}
}

func TestDecoder_InteropDelegatesToPager(t *testing.T) {
	f := &fakeFetcher{pages: intPages(3)}
	d := NewDecoder(f)

	v, err := d.DecodeStack(context.Background(), "sess", []Item{InteropItem("IIterator", "abc")})
	if err != nil {
		t.Fatal(err)
	}
	m, ok := v.(*Map)
	if !ok || m.Len() != 3 {
		t.Fatalf("got %#v", v)
	}
	if f.session != "sess" || f.iter != "abc" {
		t.Errorf("fetcher saw session=%q iterator=%q", f.session, f.iter)
	}
}

func TestPageFetcherFunc(t *testing.T) {
	calls := 0
	fn := PageFetcherFunc(func(_ context.Context, _, _ string, count int) ([]PageEntry, error) {
		calls++
		return intPages(1)[0], nil
	})
	m, err := NewPager(fn).Drain(context.Background(), "s", "i")
	if err != nil {
		t.Fatal(err)
	}
	if m.Len() != 1 || calls != 1 {
		t.Errorf("Len = %d calls = %d", m.Len(), calls)
	}
}
