// Package entryservice is the boundary to the remote entry-management service.
//
// It models the remote catalog objects touched by bulk ingestion and the calls made
// against them. Entries carry their type specific fields as a closed Details sum type
// and assets are fed from a closed Resource sum type, so every builder switches over a
// known set of variants.
//
// # Transactions
//
// A Transaction queues calls that are submitted as one multi-call round trip. Calls that
// create or update an entry return a Ref; Ref.EntryID passes the id produced by that call
// to later calls of the same transaction. The id is never known locally, the executor
// resolves it (the HTTP transport sends the {N:result:id} wire form).
//
//	tx := entryservice.NewTransaction()
//	ref := tx.AddEntry(entry, container)
//	tx.AddFlavorAsset(ref.EntryID(), flavor, resource)
//	results, err := client.Do(ctx, tx)
//	created := entryservice.Of(results, ref).Entry
//
// # Clients
//
//   - NewClient: JSON over HTTP with retries (go-retryablehttp) and a token bucket rate limit.
//   - memory.Service: an in-process service used by the sandbox mode and tests.
//   - mocks.Client: a testify mock for call expectations.
package entryservice
