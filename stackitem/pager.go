package stackitem

import (
	"context"
	stderrors "errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/fairy-rpc/errors"
)

// DefaultPageSize matches the count the server is asked for per traversal.
const DefaultPageSize = 100

// PageFetcher performs one remote traversal of an iterator and returns at
// most count entries.
type PageFetcher interface {
	FetchPage(ctx context.Context, sessionID, iteratorID string, count int) ([]PageEntry, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, sessionID, iteratorID string, count int) ([]PageEntry, error)

func (f PageFetcherFunc) FetchPage(ctx context.Context, sessionID, iteratorID string, count int) ([]PageEntry, error) {
	return f(ctx, sessionID, iteratorID, count)
}

// Pager drains server-side iterators page by page. Pages are fetched
// strictly one after another; a short or empty page ends the drain.
type Pager struct {
	decoder  *Decoder
	fetcher  PageFetcher
	logger   *zap.Logger
	pageSize int
	maxPages int
}

// NewPager creates a pager with its own decoder.
func NewPager(fetcher PageFetcher, opts ...Option) *Pager {
	return NewDecoder(fetcher, opts...).Pager()
}

// PageSize reports the number of entries requested per page.
func (p *Pager) PageSize() int {
	return p.pageSize
}

// Drain fetches every remaining entry of the iterator and returns them keyed
// by decoded key. Any fetch failure fails the whole drain.
func (p *Pager) Drain(ctx context.Context, sessionID, iteratorID string) (*Map, error) {
	return p.drain(ctx, sessionID, iteratorID, nil, 0)
}

func (p *Pager) drain(ctx context.Context, sessionID, iteratorID string, path []string, depth int) (*Map, error) {
	if p.fetcher == nil {
		return nil, errors.NotInitialized(errors.PhaseDecode, "page fetcher")
	}
	if sessionID == "" {
		return nil, errors.New(errors.PhaseDecode, errors.KindNotInitialized).
			Path(path...).
			Detail("iterator %s has no session", iteratorID).
			Build()
	}

	log := p.logger.With(zap.String("session", sessionID), zap.String("iterator", iteratorID))
	result := NewMap()
	iterPath := appendPath(path, "iterator("+iteratorID+")")

	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Transport("traverseiterator", err)
		}
		if p.maxPages > 0 && page >= p.maxPages {
			return nil, errors.Overflow(errors.PhaseTransport, iterPath, "iterator exceeds "+strconv.Itoa(p.maxPages)+" pages")
		}

		entries, err := p.fetcher.FetchPage(ctx, sessionID, iteratorID, p.pageSize)
		if err != nil {
			log.Debug("iterator page failed", zap.Int("page", page), zap.Error(err))
			var fe *errors.Error
			if stderrors.As(err, &fe) {
				return nil, err
			}
			return nil, errors.Transport("traverseiterator", err)
		}

		pagePath := appendPath(iterPath, "page["+strconv.Itoa(page)+"]")
		for i, entry := range entries {
			entryPath := appendPath(pagePath, "entry["+strconv.Itoa(i)+"]")
			if err := p.decoder.decodePair(ctx, sessionID, result, entry.Key, entry.Value, entryPath, depth); err != nil {
				return nil, err
			}
		}

		log.Debug("iterator page", zap.Int("page", page), zap.Int("entries", len(entries)))

		if len(entries) < p.pageSize {
			return result, nil
		}
	}
}
