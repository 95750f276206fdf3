package rpcclient

import (
	"context"
	"strconv"

	"github.com/wippyai/fairy-rpc/errors"
	"github.com/wippyai/fairy-rpc/stackitem"
)

// TraverseIterator fetches up to count raw items from a server-side iterator.
func (c *Client) TraverseIterator(ctx context.Context, sessionID, iteratorID string, count int) ([]stackitem.Item, error) {
	if count <= 0 {
		return nil, errors.InvalidInput(errors.PhaseTransport, "traverseiterator count must be positive")
	}
	var items []stackitem.Item
	if err := c.Call(ctx, "traverseiterator", []any{sessionID, iteratorID, count}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// FetchPage implements stackitem.PageFetcher. Every traversed item must be a
// two-element Struct or Array holding a key and a value.
func (c *Client) FetchPage(ctx context.Context, sessionID, iteratorID string, count int) ([]stackitem.PageEntry, error) {
	items, err := c.TraverseIterator(ctx, sessionID, iteratorID, count)
	if err != nil {
		return nil, err
	}

	page := make([]stackitem.PageEntry, 0, len(items))
	for i, item := range items {
		entry, err := pageEntry(item, i)
		if err != nil {
			return nil, err
		}
		page = append(page, entry)
	}
	return page, nil
}

func pageEntry(item stackitem.Item, index int) (stackitem.PageEntry, error) {
	path := []string{"iterator[" + strconv.Itoa(index) + "]"}
	if item.Type != stackitem.TypeStruct && item.Type != stackitem.TypeArray {
		return stackitem.PageEntry{}, errors.MalformedWireValue(path, string(item.Type),
			"traversed item is not a key/value pair")
	}
	pair, ok := item.Value.([]stackitem.Item)
	if !ok || len(pair) != 2 {
		return stackitem.PageEntry{}, errors.MalformedWireValue(path, string(item.Type),
			"traversed pair must hold exactly two items")
	}
	return stackitem.PageEntry{Key: pair[0], Value: pair[1]}, nil
}

var _ stackitem.PageFetcher = (*Client)(nil)
