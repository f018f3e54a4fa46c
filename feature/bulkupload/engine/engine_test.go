package engine

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"bulk-ingest/core/entryservice"
	"bulk-ingest/core/entryservice/memory"
	"bulk-ingest/core/entryservice/mocks"
	"bulk-ingest/core/schema"
	"bulk-ingest/core/utils"
	"bulk-ingest/feature/bulkupload/models"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func feed(items ...string) []byte {
	return []byte(`<?xml version="1.0"?><mrss version="1.0"><channel>` + strings.Join(items, "") + `</channel></mrss>`)
}

func newEngine(t *testing.T, client entryservice.Client, opts ...Option) *Engine {
	t.Helper()
	s, err := schema.Default()
	require.NoError(t, err)
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(client, s, opts...)
}

func job() Job {
	return Job{ID: "job-1", PartnerID: 42, MaxRecordsPerRun: 100}
}

func writeFile(t *testing.T, content string) (path, sum string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	h := sha1.Sum([]byte(content))
	return path, hex.EncodeToString(h[:])
}

func TestRun_AddWithKnownParams(t *testing.T) {
	path, sum := writeFile(t, "video bytes")
	svc := memory.New()
	eng := newEngine(t, svc)

	doc := feed(`<item><type>1</type><name>clip</name>
		<content flavorParamsId="5"><tags><tag>web</tag></tags>
			<localFileContentResource filePath="` + path + `">
				<fileChecksum type="sha1">` + sum + `</fileChecksum>
				<fileSize>11</fileSize>
			</localFileContentResource>
		</content>
		<media><mediaType>1</mediaType></media></item>`)

	report, err := eng.Run(context.Background(), doc, job())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	res := report.Results[0]
	assert.Equal(t, entryservice.EntryStatusImport, res.Status)
	assert.Equal(t, 1, res.LineIndex)
	assert.Equal(t, 42, res.PartnerID)
	assert.Equal(t, "job-1", res.JobID)
	assert.NotEmpty(t, res.EntryID)

	txs := svc.Transactions()
	require.Len(t, txs, 3)
	require.Len(t, txs[0], 1)
	primary := txs[0][0]
	assert.Equal(t, entryservice.ActionAdd, primary.Action)
	require.NotNil(t, primary.Container)
	require.Len(t, primary.Container.Resources, 1)
	assert.Equal(t, 5, primary.Container.Resources[0].AssetParamsID)
	assert.Equal(t, entryservice.LocalFileResource{Path: path}, primary.Container.Resources[0].Resource)
	assert.Equal(t, entryservice.EntryTypeMediaClip, primary.Entry.Type)
	assert.Equal(t, entryservice.MediaDetails{MediaType: entryservice.MediaTypeVideo}, primary.Entry.Details)

	assert.Equal(t, 1, svc.Calls("flavorAsset.getByEntryId"))
	assert.Equal(t, 1, svc.Calls("thumbAsset.getByEntryId"))
	assert.Equal(t, 1, svc.Calls("flavorAsset.update"))

	flavors := svc.Assets(res.EntryID, entryservice.AssetKindFlavor)
	require.Len(t, flavors, 1)
	assert.Equal(t, "web", flavors[0].Tags)
}

func TestRun_AddWithoutParams(t *testing.T) {
	svc := memory.New()
	eng := newEngine(t, svc)

	doc := feed(`<item><type>1</type><name>clip</name>
		<content><urlContentResource url="http://cdn/a.mp4"/></content>
		<thumbnail isDefault="true"><tags><tag>hero</tag></tags><urlContentResource url="http://cdn/a.jpg"/></thumbnail>
		<media><mediaType>1</mediaType></media></item>`)

	report, err := eng.Run(context.Background(), doc, job())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, entryservice.EntryStatusImport, report.Results[0].Status)

	txs := svc.Transactions()
	require.Len(t, txs, 1, "no metadata patch for no-params assets")
	calls := txs[0]
	require.Len(t, calls, 3)
	assert.Nil(t, calls[0].Container)

	assert.Equal(t, entryservice.ServiceFlavorAsset, calls[1].Service)
	assert.True(t, calls[1].EntryID.Deferred())
	assert.Equal(t, 1, calls[1].EntryID.Pending())
	assert.Equal(t, entryservice.URLResource{URL: "http://cdn/a.mp4"}, calls[1].Resource)

	assert.Equal(t, entryservice.ServiceThumbAsset, calls[2].Service)
	assert.Equal(t, "default_thumb,hero", calls[2].Thumb.Tags)
	assert.Equal(t, "{1:result:id}", calls[2].EntryID.String())

	assert.Zero(t, svc.Calls("flavorAsset.getByEntryId"))
}

func TestRun_UpdateUnknownAssetID(t *testing.T) {
	svc := memory.New(memory.WithEntry(entryservice.Entry{ID: "0_e", Name: "old"},
		entryservice.Asset{ID: "1_f", Kind: entryservice.AssetKindFlavor, ParamsID: utils.IntPtr(5)},
	))
	eng := newEngine(t, svc)

	doc := feed(
		`<item><action>update</action><entryId>0_e</entryId><type>1</type><name>clip</name>
			<content assetId="123"><urlContentResource url="http://cdn/b.mp4"/></content></item>`,
		`<item><type>1</type><name>next</name></item>`,
	)

	report, err := eng.Run(context.Background(), doc, job())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, entryservice.EntryStatusErrorImporting, report.Results[0].Status)
	assert.Equal(t, "Asset Id [123] not found on entry [0_e]", report.Results[0].ErrorDescription)
	assert.Equal(t, entryservice.EntryStatusImport, report.Results[1].Status)
	assert.Equal(t, 2, report.Results[1].LineIndex)
	assert.Equal(t, 1, report.Failed)
}

func TestRun_UpdateKnownAssetID(t *testing.T) {
	svc := memory.New(memory.WithEntry(entryservice.Entry{ID: "0_e", Name: "old"},
		entryservice.Asset{ID: "1_f", Kind: entryservice.AssetKindFlavor, ParamsID: utils.IntPtr(5)},
	))
	eng := newEngine(t, svc)

	doc := feed(`<item><action>Update</action><entryId>0_e</entryId><type>1</type><name>renamed</name>
		<content assetId="1_f"><tags><tag>hd</tag></tags><urlContentResource url="http://cdn/b.mp4"/></content>
		<content/></item>`)

	report, err := eng.Run(context.Background(), doc, job())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, entryservice.EntryStatusImport, report.Results[0].Status)
	assert.Equal(t, "0_e", report.Results[0].EntryID)

	primary := svc.Transactions()[0][0]
	assert.Equal(t, entryservice.ActionUpdate, primary.Action)
	assert.Equal(t, "0_e", primary.EntryID.String())
	require.NotNil(t, primary.Container)
	require.Len(t, primary.Container.Resources, 1)
	assert.Equal(t, 5, primary.Container.Resources[0].AssetParamsID)

	entry, ok := svc.Entry("0_e")
	require.True(t, ok)
	assert.Equal(t, "renamed", entry.Name)
	assert.Equal(t, "hd", svc.Assets("0_e", entryservice.AssetKindFlavor)[0].Tags)
	assert.Equal(t, 1, svc.Calls("ListFlavorAssets"))
}

func TestRun_UnsupportedActionAborts(t *testing.T) {
	svc := memory.New()
	eng := newEngine(t, svc)

	doc := feed(
		`<item><type>1</type><name>first</name></item>`,
		`<item><action>archive</action><type>1</type><name>second</name></item>`,
		`<item><type>1</type><name>third</name></item>`,
	)

	report, err := eng.Run(context.Background(), doc, job())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedAction))
	assert.False(t, IsItemError(err))
	require.Len(t, report.Results, 1)
	assert.Equal(t, 1, svc.Entries())
}

func TestRun_MalformedStartDate(t *testing.T) {
	svc := memory.New()
	eng := newEngine(t, svc)

	doc := feed(`<item><type>1</type><name>clip</name><startDate>yesterday</startDate><endDate>2024-06-01T00:00:00</endDate></item>`)

	report, err := eng.Run(context.Background(), doc, job())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	res := report.Results[0]
	assert.Equal(t, entryservice.EntryStatusErrorImporting, res.Status)
	assert.Equal(t, "Invalid schedule start date yesterday on item clip", res.ErrorDescription)
	assert.Nil(t, res.ScheduleStartDate)
	assert.Nil(t, res.ScheduleEndDate)
	assert.Zero(t, svc.Entries())
}

func TestRun_UnknownTypeCodeIsKept(t *testing.T) {
	svc := memory.New()
	eng := newEngine(t, svc)

	_, err := eng.Run(context.Background(), feed(`<item><type>99</type><name>odd</name></item>`), job())
	require.NoError(t, err)

	txs := svc.Transactions()
	require.NotEmpty(t, txs)
	primary := txs[0][0]
	assert.Equal(t, entryservice.EntryType(99), primary.Entry.Type)
	assert.Nil(t, primary.Entry.Details)
}

func TestRun_BothDatesMalformed(t *testing.T) {
	eng := newEngine(t, memory.New())

	doc := feed(`<item><type>1</type><name>clip</name><startDate>yesterday</startDate><endDate>tomorrow</endDate></item>`)

	report, err := eng.Run(context.Background(), doc, job())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, "Invalid schedule end date tomorrow on item clip", report.Results[0].ErrorDescription)
	assert.Nil(t, report.Results[0].ScheduleStartDate)
}

func TestRun_ScheduleDates(t *testing.T) {
	svc := memory.New()
	eng := newEngine(t, svc)

	doc := feed(
		`<item><type>1</type><name>dated</name><startDate>2024-06-01T10:00:00</startDate><endDate>2024-07-01T10:00:00</endDate></item>`,
		`<item><type>1</type><name>undated</name></item>`,
	)

	report, err := eng.Run(context.Background(), doc, job())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	require.NotNil(t, report.Results[0].ScheduleStartDate)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), *report.Results[0].ScheduleStartDate)
	require.NotNil(t, report.Results[0].ScheduleEndDate)

	undated, ok := svc.Entry(report.Results[1].EntryID)
	require.True(t, ok)
	require.NotNil(t, undated.StartDate)
	assert.Equal(t, fixedNow, *undated.StartDate)
	assert.Nil(t, undated.EndDate)
}

func TestRun_ResumeOffset(t *testing.T) {
	svc := memory.New()
	eng := newEngine(t, svc)

	skipped := `<item><type>1</type><name>skipped</name><ingestionProfile>web</ingestionProfile><data/></item>`
	doc := feed(skipped, skipped,
		`<item><type>1</type><name>third</name></item>`,
		`<item><type>1</type><name>fourth</name></item>`,
	)

	j := job()
	j.StartIndex = 2
	report, err := eng.Run(context.Background(), doc, j)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, 3, report.Results[0].LineIndex)
	assert.Equal(t, 4, report.Results[1].LineIndex)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 4, report.NextStartIndex)
	assert.Zero(t, svc.Calls("ListIngestionProfiles"))
}

func TestRun_MaxRecordsPerRun(t *testing.T) {
	svc := memory.New()
	eng := newEngine(t, svc)

	items := make([]string, 5)
	for i := range items {
		items[i] = `<item><type>1</type><name>clip</name></item>`
	}

	j := job()
	j.MaxRecordsPerRun = 2
	report, err := eng.Run(context.Background(), feed(items...), j)
	require.NoError(t, err)
	assert.True(t, report.ExceededMaxRecords)
	assert.Len(t, report.Results, 3)
	assert.Equal(t, 3, report.NextStartIndex)
	assert.Equal(t, 3, svc.Entries())

	j.StartIndex = report.NextStartIndex
	next, err := eng.Run(context.Background(), feed(items...), j)
	require.NoError(t, err)
	assert.False(t, next.ExceededMaxRecords)
	require.Len(t, next.Results, 2)
	assert.Equal(t, 4, next.Results[0].LineIndex)
	assert.Equal(t, 5, next.NextStartIndex)
}

func TestRun_ResolvesNamesOncePerRun(t *testing.T) {
	svc := memory.New(
		memory.WithAccessControlProfiles(
			entryservice.Profile{ID: 3, SystemName: "public"},
			entryservice.Profile{ID: 4, SystemName: ""},
		),
		memory.WithIngestionProfiles(
			entryservice.Profile{ID: 1, SystemName: "web"},
			entryservice.Profile{ID: 2, SystemName: "mobile"},
		),
		memory.WithAssetParams(1, entryservice.Profile{ID: 10, SystemName: "hd"}),
		memory.WithAssetParams(2, entryservice.Profile{ID: 20, SystemName: "hd"}),
	)
	eng := newEngine(t, svc)

	doc := feed(
		`<item><type>1</type><name>a</name><accessControl>public</accessControl><ingestionProfile>web</ingestionProfile>
			<content flavorParams="hd"><urlContentResource url="http://cdn/a"/></content></item>`,
		`<item><type>1</type><name>b</name><accessControl>public</accessControl><ingestionProfile>mobile</ingestionProfile>
			<content flavorParams="hd"><urlContentResource url="http://cdn/b"/></content></item>`,
		`<item><type>1</type><name>c</name><accessControl>private</accessControl><ingestionProfile>web</ingestionProfile>
			<content flavorParams="hd"><urlContentResource url="http://cdn/c"/></content></item>`,
	)

	report, err := eng.Run(context.Background(), doc, job())
	require.NoError(t, err)
	require.Len(t, report.Results, 3)

	assert.Equal(t, 1, svc.Calls("ListAccessControlProfiles"))
	assert.Equal(t, 1, svc.Calls("ListIngestionProfiles"))
	assert.Equal(t, 2, svc.Calls("ListAssetParams"))

	assert.Equal(t, utils.IntPtr(3), report.Results[0].AccessControlProfileID)
	assert.Nil(t, report.Results[2].AccessControlProfileID)
	assert.Equal(t, utils.IntPtr(2), report.Results[1].IngestionProfileID)

	var paramsIDs []int
	for _, tx := range svc.Transactions() {
		if tx[0].Action == entryservice.ActionAdd && tx[0].Service == entryservice.ServiceBaseEntry {
			paramsIDs = append(paramsIDs, tx[0].Container.Resources[0].AssetParamsID)
		}
	}
	assert.Equal(t, []int{10, 20, 10}, paramsIDs)
}

func TestRun_ChecksumMismatchContinues(t *testing.T) {
	path, _ := writeFile(t, "video bytes")
	svc := memory.New()
	eng := newEngine(t, svc)

	doc := feed(
		`<item><type>1</type><name>bad</name><content flavorParamsId="5">
			<localFileContentResource filePath="`+path+`"><fileChecksum type="sha1">00ff</fileChecksum></localFileContentResource>
		</content></item>`,
		`<item><type>1</type><name>good</name></item>`,
	)

	report, err := eng.Run(context.Background(), doc, job())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, entryservice.EntryStatusErrorImporting, report.Results[0].Status)
	assert.Contains(t, report.Results[0].ErrorDescription, "File checksum is invalid for file ["+path+"], Xml checksum [00ff]")
	assert.Equal(t, entryservice.EntryStatusImport, report.Results[1].Status)
	assert.Equal(t, 1, svc.Entries())
}

func TestRun_ItemErrors(t *testing.T) {
	tests := []struct {
		name    string
		item    string
		message string
	}{
		{
			name:    "conflicted typed element",
			item:    `<item><type>1</type><name>x</name><data/></item>`,
			message: "Conflicted typed element for type [1] on item [x]",
		},
		{
			name:    "update without entry id",
			item:    `<item><action>update</action><type>1</type><name>x</name></item>`,
			message: "Missing entry id element",
		},
		{
			name:    "delete without entry id",
			item:    `<item><action>delete</action><name>x</name></item>`,
			message: "Missing entry id element",
		},
		{
			name:    "delete unknown entry",
			item:    `<item><action>delete</action><entryId>0_missing</entryId><name>x</name></item>`,
			message: "ENTRY_ID_NOT_FOUND: ENTRY id [0_missing] not found",
		},
		{
			name:    "add content without resource",
			item:    `<item><type>1</type><name>x</name><content flavorParamsId="5"/></item>`,
			message: "Missing resource on flavor element",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newEngine(t, memory.New())
			report, err := eng.Run(context.Background(), feed(tt.item), job())
			require.NoError(t, err)
			require.Len(t, report.Results, 1)
			assert.Equal(t, entryservice.EntryStatusErrorImporting, report.Results[0].Status)
			assert.Equal(t, tt.message, report.Results[0].ErrorDescription)
			assert.Contains(t, report.Results[0].RowData, "<name>x</name>")
		})
	}
}

func TestRun_Delete(t *testing.T) {
	svc := memory.New(memory.WithEntry(entryservice.Entry{ID: "0_e"}))
	eng := newEngine(t, svc)

	report, err := eng.Run(context.Background(), feed(`<item><action>delete</action><entryId>0_e</entryId></item>`), job())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, entryservice.EntryStatusImport, report.Results[0].Status)
	assert.Equal(t, models.ActionDelete, report.Results[0].Action)
	assert.Equal(t, "0_e", report.Results[0].EntryID)
	assert.Zero(t, svc.Entries())
}

func TestRun_Aborted(t *testing.T) {
	svc := memory.New()
	eng := newEngine(t, svc)

	j := job()
	polls := 0
	j.Aborted = func(context.Context) bool {
		polls++
		return polls > 1
	}

	doc := feed(`<item><type>1</type><name>a</name></item>`, `<item><type>1</type><name>b</name></item>`)
	report, err := eng.Run(context.Background(), doc, j)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAborted))
	assert.Len(t, report.Results, 1)
	assert.Equal(t, 1, svc.Entries())
}

func TestRun_SchemaViolation(t *testing.T) {
	svc := memory.New()
	eng := newEngine(t, svc)

	report, err := eng.Run(context.Background(), []byte(`<mrss><channel><item><bogus/></item></channel></mrss>`), job())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaValidation))
	assert.NotEmpty(t, errors.GetAllDetails(err))
	assert.Empty(t, report.Results)
	assert.Zero(t, svc.Calls("multirequest"))
	assert.Empty(t, svc.Impersonations())
}

func TestRun_Impersonates(t *testing.T) {
	svc := memory.New()
	eng := newEngine(t, svc)

	_, err := eng.Run(context.Background(), feed(`<item><type>1</type><name>a</name></item>`), job())
	require.NoError(t, err)
	assert.Equal(t, []int{42}, svc.Impersonations())
}

type recordingHook struct {
	added   []string
	updated []string
	err     error
}

func (h *recordingHook) OnAdded(_ context.Context, _ entryservice.Client, entry *entryservice.Entry, item *models.Item) error {
	h.added = append(h.added, entry.ID+":"+item.Name)
	return h.err
}

func (h *recordingHook) OnUpdated(_ context.Context, _ entryservice.Client, entry *entryservice.Entry, item *models.Item) error {
	h.updated = append(h.updated, entry.ID+":"+item.Name)
	return h.err
}

func TestRun_Hooks(t *testing.T) {
	svc := memory.New(memory.WithEntry(entryservice.Entry{ID: "0_e"}))
	hook := &recordingHook{err: errors.New("hook failed")}
	eng := newEngine(t, svc, WithHooks(hook))

	doc := feed(
		`<item><type>1</type><name>new</name></item>`,
		`<item><action>update</action><entryId>0_e</entryId><type>1</type><name>old</name></item>`,
		`<item><action>update</action><type>1</type><name>broken</name></item>`,
	)
	report, err := eng.Run(context.Background(), doc, job())
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Equal(t, 1, report.Failed)

	require.Len(t, hook.added, 1)
	assert.True(t, strings.HasSuffix(hook.added[0], ":new"))
	assert.Equal(t, []string{"0_e:old"}, hook.updated)
}

func TestRun_TransportErrorIsFatal(t *testing.T) {
	m := &mocks.Client{}
	m.On("Impersonate", 7).Return(nil)
	m.On("Do", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))
	eng := newEngine(t, m)

	j := job()
	j.PartnerID = 7
	doc := feed(
		`<item><type>1</type><name>a</name><ingestionProfileId>1</ingestionProfileId></item>`,
		`<item><type>1</type><name>b</name><ingestionProfileId>1</ingestionProfileId></item>`,
	)
	report, err := eng.Run(context.Background(), doc, j)
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
	assert.False(t, IsItemError(err))
	assert.Empty(t, report.Results)
	m.AssertNumberOfCalls(t, "Do", 1)
}

func TestRun_EntryNotCreated(t *testing.T) {
	m := &mocks.Client{}
	m.On("Impersonate", 42).Return(nil)
	m.On("Do", mock.Anything, mock.Anything).Return([]entryservice.Result{{Entry: &entryservice.Entry{}}}, nil).Once()
	m.On("Do", mock.Anything, mock.Anything).Return([]entryservice.Result{{Err: &entryservice.APIError{Code: "INVALID_KS", Message: "bad session"}}}, nil).Once()
	eng := newEngine(t, m)

	doc := feed(
		`<item><type>1</type><name>a</name><ingestionProfileId>1</ingestionProfileId></item>`,
		`<item><type>1</type><name>b</name><ingestionProfileId>1</ingestionProfileId></item>`,
	)
	report, err := eng.Run(context.Background(), doc, job())
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Equal(t, "Entry was not created for item [a]", report.Results[0].ErrorDescription)
	assert.Equal(t, "INVALID_KS: bad session", report.Results[1].ErrorDescription)
	assert.Equal(t, utils.IntPtr(1), report.Results[1].IngestionProfileID)
	m.AssertExpectations(t)
}

func TestRun_MalformedPrimaryResult(t *testing.T) {
	tests := []struct {
		name    string
		primary any
	}{
		{name: "null", primary: nil},
		{name: "string", primary: "x"},
		{name: "number", primary: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var posts atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if posts.Add(1) == 1 {
					_ = json.NewEncoder(w).Encode([]any{tt.primary})
					return
				}
				_ = json.NewEncoder(w).Encode([]any{map[string]any{"objectType": "MediaEntry", "id": "0_b", "type": 1}})
			}))
			defer srv.Close()

			client, err := entryservice.NewClient(entryservice.Config{Endpoint: srv.URL, TimeoutSeconds: 5}, zap.NewNop())
			require.NoError(t, err)
			eng := newEngine(t, client)

			doc := feed(
				`<item><type>1</type><name>a</name><ingestionProfileId>1</ingestionProfileId></item>`,
				`<item><type>1</type><name>b</name><ingestionProfileId>1</ingestionProfileId></item>`,
			)
			report, err := eng.Run(context.Background(), doc, job())
			require.NoError(t, err)
			require.Len(t, report.Results, 2)

			assert.Equal(t, entryservice.EntryStatusErrorImporting, report.Results[0].Status)
			assert.True(t, strings.HasPrefix(report.Results[0].ErrorDescription, "Entry was not created for item [a]"))
			assert.Equal(t, entryservice.EntryStatusImport, report.Results[1].Status)
			assert.Equal(t, "0_b", report.Results[1].EntryID)
			assert.EqualValues(t, 2, posts.Load())
		})
	}
}

func TestValidate(t *testing.T) {
	eng := newEngine(t, memory.New())

	assert.NoError(t, eng.Validate(feed(`<item><type>1</type><name>a</name></item>`)))

	err := eng.Validate([]byte(`<mrss><channel><item><type>x</type></item></channel>`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchemaValidation))
}
