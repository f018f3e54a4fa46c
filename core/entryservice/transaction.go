package entryservice

import (
	"fmt"
	"strconv"
)

// Call services.
const (
	ServiceBaseEntry   = "baseEntry"
	ServiceFlavorAsset = "flavorAsset"
	ServiceThumbAsset  = "thumbAsset"
)

// Call actions.
const (
	ActionAdd          = "add"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionGetByEntryID = "getByEntryId"
)

// Ref is a pending handle to the result of an earlier call in the same transaction.
// It is resolved only by the executor of the transaction.
type Ref struct {
	index int
}

// Index returns the 1-based position of the referenced call.
func (r Ref) Index() int {
	return r.index
}

// EntryID returns an entry id argument bound to the id of the referenced result.
func (r Ref) EntryID() EntryRef {
	return EntryRef{ref: r.index}
}

// EntryRef is an entry id argument, either known or deferred to an earlier result.
type EntryRef struct {
	id  string
	ref int
}

// EntryID returns a known entry id argument.
func EntryID(id string) EntryRef {
	return EntryRef{id: id}
}

// Deferred reports whether the id is bound to an earlier result.
// When true, Pending returns the 1-based index of that call.
func (e EntryRef) Deferred() bool {
	return e.ref > 0
}

// Pending returns the index of the referenced call, zero for known ids.
func (e EntryRef) Pending() int {
	return e.ref
}

// Resolve returns the id, using lookup for deferred references.
func (e EntryRef) Resolve(lookup func(index int) (string, bool)) (string, error) {
	if !e.Deferred() {
		return e.id, nil
	}
	id, ok := lookup(e.ref)
	if !ok || id == "" {
		return "", fmt.Errorf("deferred entry id %s did not resolve", e)
	}
	return id, nil
}

// String renders the wire form. Deferred ids use {N:result:id}.
func (e EntryRef) String() string {
	if e.Deferred() {
		return "{" + strconv.Itoa(e.ref) + ":result:id}"
	}
	return e.id
}

// Call is one remote operation of a transaction.
type Call struct {
	Service  string
	Action   string
	EntryID  EntryRef
	AssetID  string
	Entry    *Entry
	Flavor   *FlavorAsset
	Thumb    *ThumbAsset
	Resource Resource
	// Container is only set on entry add and update calls.
	Container *ResourceContainer
}

// Transaction collects calls submitted as one multi-call round trip.
type Transaction struct {
	calls []Call
}

// NewTransaction creates an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{}
}

// Calls returns the queued calls in submission order.
func (t *Transaction) Calls() []Call {
	return t.calls
}

// Len returns the number of queued calls.
func (t *Transaction) Len() int {
	return len(t.calls)
}

func (t *Transaction) push(c Call) Ref {
	t.calls = append(t.calls, c)
	return Ref{index: len(t.calls)}
}

// AddEntry queues an entry creation. A nil or empty container is sent as none.
func (t *Transaction) AddEntry(entry *Entry, container *ResourceContainer) Ref {
	return t.push(Call{Service: ServiceBaseEntry, Action: ActionAdd, Entry: entry, Container: container.OrNil()})
}

// UpdateEntry queues an entry update. A nil or empty container is sent as none.
func (t *Transaction) UpdateEntry(entryID EntryRef, entry *Entry, container *ResourceContainer) Ref {
	return t.push(Call{Service: ServiceBaseEntry, Action: ActionUpdate, EntryID: entryID, Entry: entry, Container: container.OrNil()})
}

// DeleteEntry queues an entry deletion.
func (t *Transaction) DeleteEntry(entryID EntryRef) Ref {
	return t.push(Call{Service: ServiceBaseEntry, Action: ActionDelete, EntryID: entryID})
}

// AddFlavorAsset queues a flavor creation on the entry.
func (t *Transaction) AddFlavorAsset(entryID EntryRef, asset *FlavorAsset, resource Resource) Ref {
	return t.push(Call{Service: ServiceFlavorAsset, Action: ActionAdd, EntryID: entryID, Flavor: asset, Resource: resource})
}

// AddThumbAsset queues a thumbnail creation on the entry.
func (t *Transaction) AddThumbAsset(entryID EntryRef, asset *ThumbAsset, resource Resource) Ref {
	return t.push(Call{Service: ServiceThumbAsset, Action: ActionAdd, EntryID: entryID, Thumb: asset, Resource: resource})
}

// UpdateFlavorAsset queues a flavor metadata update.
func (t *Transaction) UpdateFlavorAsset(assetID string, asset *FlavorAsset) Ref {
	return t.push(Call{Service: ServiceFlavorAsset, Action: ActionUpdate, AssetID: assetID, Flavor: asset})
}

// UpdateThumbAsset queues a thumbnail metadata update.
func (t *Transaction) UpdateThumbAsset(assetID string, asset *ThumbAsset) Ref {
	return t.push(Call{Service: ServiceThumbAsset, Action: ActionUpdate, AssetID: assetID, Thumb: asset})
}

// ListFlavorAssets queues a listing of the entry's flavors.
func (t *Transaction) ListFlavorAssets(entryID EntryRef) Ref {
	return t.push(Call{Service: ServiceFlavorAsset, Action: ActionGetByEntryID, EntryID: entryID})
}

// ListThumbAssets queues a listing of the entry's thumbnails.
func (t *Transaction) ListThumbAssets(entryID EntryRef) Ref {
	return t.push(Call{Service: ServiceThumbAsset, Action: ActionGetByEntryID, EntryID: entryID})
}

// Result is the outcome of one call. Exactly one of the payload fields is set
// for successful calls; Err is set when the call failed on the remote side.
type Result struct {
	Entry  *Entry
	Asset  *Asset
	Assets []Asset
	Err    error
}

// Of returns the result matching ref, or an empty result when out of range.
func Of(results []Result, ref Ref) Result {
	if ref.index < 1 || ref.index > len(results) {
		return Result{}
	}
	return results[ref.index-1]
}
