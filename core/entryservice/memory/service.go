package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bulk-ingest/core/entryservice"
)

// Service is an in-process entry-management service.
// It executes transactions the way the remote service does, including deferred
// entry ids, and counts every call so callers can assert on round trips.
type Service struct {
	mu sync.Mutex

	seq     int
	entries map[string]*entryservice.Entry
	assets  map[string]*entryservice.Asset

	ingestionProfiles []entryservice.Profile
	assetParams       map[int][]entryservice.Profile
	thumbParams       map[int]bool
	accessControls    []entryservice.Profile
	storageProfiles   []entryservice.Profile
	defaultProfile    *entryservice.Profile

	calls          map[string]int
	transactions   [][]entryservice.Call
	impersonations []int
}

// Option seeds the service.
type Option func(*Service)

// WithIngestionProfiles registers ingestion profiles.
func WithIngestionProfiles(profiles ...entryservice.Profile) Option {
	return func(s *Service) { s.ingestionProfiles = append(s.ingestionProfiles, profiles...) }
}

// WithAssetParams registers the asset params of one ingestion profile.
func WithAssetParams(ingestionProfileID int, params ...entryservice.Profile) Option {
	return func(s *Service) {
		s.assetParams[ingestionProfileID] = append(s.assetParams[ingestionProfileID], params...)
	}
}

// WithThumbParams marks asset params ids producing thumbnails rather than flavors.
func WithThumbParams(ids ...int) Option {
	return func(s *Service) {
		for _, id := range ids {
			s.thumbParams[id] = true
		}
	}
}

// WithAccessControlProfiles registers access control profiles.
func WithAccessControlProfiles(profiles ...entryservice.Profile) Option {
	return func(s *Service) { s.accessControls = append(s.accessControls, profiles...) }
}

// WithStorageProfiles registers storage profiles.
func WithStorageProfiles(profiles ...entryservice.Profile) Option {
	return func(s *Service) { s.storageProfiles = append(s.storageProfiles, profiles...) }
}

// WithDefaultIngestionProfile sets the partner default ingestion profile.
func WithDefaultIngestionProfile(p entryservice.Profile) Option {
	return func(s *Service) { s.defaultProfile = &p }
}

// WithEntry seeds an existing entry and its assets.
func WithEntry(entry entryservice.Entry, assets ...entryservice.Asset) Option {
	return func(s *Service) {
		e := entry
		s.entries[e.ID] = &e
		for _, a := range assets {
			a.EntryID = e.ID
			s.assets[a.ID] = &a
		}
	}
}

// New creates a service seeded with opts.
func New(opts ...Option) *Service {
	s := &Service{
		entries:     make(map[string]*entryservice.Entry),
		assets:      make(map[string]*entryservice.Asset),
		assetParams: make(map[int][]entryservice.Profile),
		thumbParams: make(map[int]bool),
		calls:       make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calls returns how many times the named operation ran.
// Transaction calls are counted as "<service>.<action>".
func (s *Service) Calls(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

// Transactions returns the calls of every submitted transaction in order.
func (s *Service) Transactions() [][]entryservice.Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]entryservice.Call, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Impersonations returns the partner ids passed to Impersonate.
func (s *Service) Impersonations() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.impersonations...)
}

// Entry returns a copy of the stored entry.
func (s *Service) Entry(id string) (entryservice.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return entryservice.Entry{}, false
	}
	return *e, true
}

// Entries returns the number of stored entries.
func (s *Service) Entries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Assets returns the entry's assets of the given kind ordered by id.
func (s *Service) Assets(entryID string, kind entryservice.AssetKind) []entryservice.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assetsOf(entryID, kind)
}

func (s *Service) assetsOf(entryID string, kind entryservice.AssetKind) []entryservice.Asset {
	out := make([]entryservice.Asset, 0)
	for _, a := range s.assets {
		if a.EntryID == entryID && a.Kind == kind {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Service) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s_%06d", prefix, s.seq)
}

func notFound(kind, id string) error {
	return &entryservice.APIError{Code: kind + "_ID_NOT_FOUND", Message: fmt.Sprintf("%s id [%s] not found", kind, id)}
}

// Impersonate records the partner and returns the service itself.
func (s *Service) Impersonate(partnerID int) entryservice.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.impersonations = append(s.impersonations, partnerID)
	return s
}

// Do executes the calls in order. A failing call does not stop later calls.
func (s *Service) Do(ctx context.Context, tx *entryservice.Transaction) ([]entryservice.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	calls := tx.Calls()
	s.transactions = append(s.transactions, append([]entryservice.Call(nil), calls...))
	s.calls["multirequest"]++

	results := make([]entryservice.Result, 0, len(calls))
	lookup := func(index int) (string, bool) {
		if index < 1 || index > len(results) {
			return "", false
		}
		r := results[index-1]
		switch {
		case r.Entry != nil:
			return r.Entry.ID, true
		case r.Asset != nil:
			return r.Asset.ID, true
		}
		return "", false
	}

	for _, c := range calls {
		s.calls[c.Service+"."+c.Action]++
		results = append(results, s.execute(c, lookup))
	}
	return results, nil
}

func (s *Service) execute(c entryservice.Call, lookup func(int) (string, bool)) entryservice.Result {
	entryID, err := c.EntryID.Resolve(lookup)
	if err != nil {
		return entryservice.Result{Err: err}
	}

	switch c.Service + "." + c.Action {
	case entryservice.ServiceBaseEntry + "." + entryservice.ActionAdd:
		return s.addEntry(c.Entry, c.Container)
	case entryservice.ServiceBaseEntry + "." + entryservice.ActionUpdate:
		return s.updateEntry(entryID, c.Entry, c.Container)
	case entryservice.ServiceBaseEntry + "." + entryservice.ActionDelete:
		return entryservice.Result{Err: s.deleteEntry(entryID)}
	case entryservice.ServiceFlavorAsset + "." + entryservice.ActionAdd:
		return s.addAsset(entryID, entryservice.AssetKindFlavor, c.Flavor.FlavorParamsID, c.Flavor.Tags)
	case entryservice.ServiceThumbAsset + "." + entryservice.ActionAdd:
		return s.addAsset(entryID, entryservice.AssetKindThumb, c.Thumb.ThumbParamsID, c.Thumb.Tags)
	case entryservice.ServiceFlavorAsset + "." + entryservice.ActionUpdate:
		return s.updateAsset(c.AssetID, c.Flavor.Tags)
	case entryservice.ServiceThumbAsset + "." + entryservice.ActionUpdate:
		return s.updateAsset(c.AssetID, c.Thumb.Tags)
	case entryservice.ServiceFlavorAsset + "." + entryservice.ActionGetByEntryID:
		return entryservice.Result{Assets: s.assetsOf(entryID, entryservice.AssetKindFlavor)}
	case entryservice.ServiceThumbAsset + "." + entryservice.ActionGetByEntryID:
		return entryservice.Result{Assets: s.assetsOf(entryID, entryservice.AssetKindThumb)}
	default:
		return entryservice.Result{Err: &entryservice.APIError{Code: "SERVICE_FORBIDDEN", Message: c.Service + "." + c.Action}}
	}
}

func (s *Service) addEntry(entry *entryservice.Entry, container *entryservice.ResourceContainer) entryservice.Result {
	if entry == nil {
		return entryservice.Result{Err: &entryservice.APIError{Code: "MISSING_MANDATORY_PARAMETER", Message: "entry"}}
	}
	e := *entry
	e.ID = s.nextID("0")
	e.Status = entryservice.EntryStatusImport
	s.entries[e.ID] = &e
	s.attachContainer(e.ID, container)

	out := e
	return entryservice.Result{Entry: &out}
}

func (s *Service) updateEntry(id string, entry *entryservice.Entry, container *entryservice.ResourceContainer) entryservice.Result {
	stored, ok := s.entries[id]
	if !ok {
		return entryservice.Result{Err: notFound("ENTRY", id)}
	}
	if entry != nil {
		e := *entry
		e.ID = id
		e.Status = stored.Status
		*stored = e
	}
	s.attachContainer(id, container)

	out := *stored
	return entryservice.Result{Entry: &out}
}

// attachContainer creates one asset per resource, replacing an asset with the same params.
func (s *Service) attachContainer(entryID string, container *entryservice.ResourceContainer) {
	if container == nil {
		return
	}
	for _, r := range container.Resources {
		kind := entryservice.AssetKindFlavor
		if s.thumbParams[r.AssetParamsID] {
			kind = entryservice.AssetKindThumb
		}
		replaced := false
		for _, a := range s.assets {
			if a.EntryID == entryID && a.Kind == kind && a.ParamsID != nil && *a.ParamsID == r.AssetParamsID {
				replaced = true
			}
		}
		if replaced {
			continue
		}
		paramsID := r.AssetParamsID
		id := s.nextID("1")
		s.assets[id] = &entryservice.Asset{ID: id, EntryID: entryID, Kind: kind, ParamsID: &paramsID}
	}
}

func (s *Service) deleteEntry(id string) error {
	if _, ok := s.entries[id]; !ok {
		return notFound("ENTRY", id)
	}
	delete(s.entries, id)
	for assetID, a := range s.assets {
		if a.EntryID == id {
			delete(s.assets, assetID)
		}
	}
	return nil
}

func (s *Service) addAsset(entryID string, kind entryservice.AssetKind, paramsID *int, tags string) entryservice.Result {
	if _, ok := s.entries[entryID]; !ok {
		return entryservice.Result{Err: notFound("ENTRY", entryID)}
	}
	a := &entryservice.Asset{ID: s.nextID("1"), EntryID: entryID, Kind: kind, Tags: tags}
	if paramsID != nil {
		p := *paramsID
		a.ParamsID = &p
	}
	s.assets[a.ID] = a

	out := *a
	return entryservice.Result{Asset: &out}
}

func (s *Service) updateAsset(id, tags string) entryservice.Result {
	a, ok := s.assets[id]
	if !ok {
		return entryservice.Result{Err: notFound("ASSET", id)}
	}
	a.Tags = tags

	out := *a
	return entryservice.Result{Asset: &out}
}

func (s *Service) count(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *Service) ListIngestionProfiles(ctx context.Context) ([]entryservice.Profile, error) {
	s.count("ListIngestionProfiles")
	return append([]entryservice.Profile(nil), s.ingestionProfiles...), ctx.Err()
}

func (s *Service) ListAssetParams(ctx context.Context, ingestionProfileID int) ([]entryservice.Profile, error) {
	s.count("ListAssetParams")
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entryservice.Profile(nil), s.assetParams[ingestionProfileID]...), ctx.Err()
}

func (s *Service) ListAccessControlProfiles(ctx context.Context) ([]entryservice.Profile, error) {
	s.count("ListAccessControlProfiles")
	return append([]entryservice.Profile(nil), s.accessControls...), ctx.Err()
}

func (s *Service) ListStorageProfiles(ctx context.Context) ([]entryservice.Profile, error) {
	s.count("ListStorageProfiles")
	return append([]entryservice.Profile(nil), s.storageProfiles...), ctx.Err()
}

func (s *Service) GetDefaultIngestionProfile(ctx context.Context) (*entryservice.Profile, error) {
	s.count("GetDefaultIngestionProfile")
	if s.defaultProfile == nil {
		return nil, &entryservice.APIError{Code: "NO_DEFAULT_PROFILE", Message: "partner has no default ingestion profile"}
	}
	p := *s.defaultProfile
	return &p, ctx.Err()
}

func (s *Service) ListFlavorAssets(ctx context.Context, entryID string) ([]entryservice.Asset, error) {
	s.count("ListFlavorAssets")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entryID]; !ok {
		return nil, notFound("ENTRY", entryID)
	}
	return s.assetsOf(entryID, entryservice.AssetKindFlavor), ctx.Err()
}

func (s *Service) ListThumbAssets(ctx context.Context, entryID string) ([]entryservice.Asset, error) {
	s.count("ListThumbAssets")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entryID]; !ok {
		return nil, notFound("ENTRY", entryID)
	}
	return s.assetsOf(entryID, entryservice.AssetKindThumb), ctx.Err()
}

func (s *Service) DeleteEntry(ctx context.Context, entryID string) error {
	s.count("DeleteEntry")
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.deleteEntry(entryID)
}
