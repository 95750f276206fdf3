// Package rpcclient is a small JSON-RPC 2.0 client for Neo N3 nodes and
// Fairy test servers.
//
// Every request carries a fresh UUID as its id. Parameters are built with
// the stackitem encoder and results are decoded with a stackitem.Decoder
// whose PageFetcher is the client itself, so iterators returned by an
// invocation are drained through traverseiterator before the call returns:
//
//	c := rpcclient.New("http://localhost:16868", rpcclient.WithPageSize(100))
//	inv, err := c.InvokeFunctionWithSession(ctx, "alice", false,
//		contract, "balanceOf", []any{account})
//	if err != nil {
//		return err
//	}
//	balance := inv.Value.(*big.Int)
//
// Failures are *errors.Error values. Transport problems match
// errors.ErrTransport; node-side errors and VM faults match errors.ErrRPC,
// with the node's error object reachable as *errors.RPCError.
package rpcclient
