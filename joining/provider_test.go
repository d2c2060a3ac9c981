package joining

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kbukum/datakit/dataprovider"
	dperrors "github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/event"
	"github.com/kbukum/datakit/memory"
)

// countingProvider records every FetchByKeys call made against it.
type countingProvider struct {
	dataprovider.DataProvider

	mu    sync.Mutex
	calls int
	keys  [][]any
	attrs [][]dataprovider.Attribute
}

func counting(inner dataprovider.DataProvider) *countingProvider {
	return &countingProvider{DataProvider: inner}
}

func (c *countingProvider) FetchByKeys(ctx context.Context, params dataprovider.FetchByKeysParams) (*dataprovider.FetchByKeysResult, error) {
	c.mu.Lock()
	c.calls++
	c.keys = append(c.keys, params.Keys)
	c.attrs = append(c.attrs, params.Attributes)
	c.mu.Unlock()
	return c.DataProvider.FetchByKeys(ctx, params)
}

func (c *countingProvider) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// failingProvider rejects every keyed fetch.
type failingProvider struct {
	dataprovider.DataProvider
	err error
}

func (f *failingProvider) FetchByKeys(ctx context.Context, params dataprovider.FetchByKeysParams) (*dataprovider.FetchByKeysResult, error) {
	return nil, f.err
}

// iterationProvider hides its batched key-lookup capability.
type iterationProvider struct {
	dataprovider.DataProvider
}

func (p *iterationProvider) Capability(name string) any {
	if name == dataprovider.CapabilityFetchByKeys {
		return dataprovider.FetchByKeysCapability{Implementation: dataprovider.IterationLookup}
	}
	return p.DataProvider.Capability(name)
}

func employeeProvider() *memory.Provider {
	return memory.New("employees", "id", []dataprovider.Record{
		{"id": 1, "deptId": 10},
		{"id": 2, "deptId": 20},
	})
}

func departmentProvider() *memory.Provider {
	return memory.New("departments", "id", []dataprovider.Record{
		{"id": 10, "name": "Eng"},
		{"id": 20, "name": "Sales"},
	})
}

func fetchAll(t *testing.T, dp dataprovider.DataProvider, params dataprovider.FetchListParams) []dataprovider.Item {
	t.Helper()
	it := dp.FetchFirst(context.Background(), params)
	defer it.Close()

	var out []dataprovider.Item
	for {
		page, ok, err := it.Next(context.Background())
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if !ok {
			return out
		}
		out = append(out, page.Items...)
	}
}

func deptOf(t *testing.T, item dataprovider.Item) dataprovider.Record {
	t.Helper()
	v, ok := item.Data["dept"]
	if !ok {
		t.Fatalf("row %v has no dept field", item.Data)
	}
	if v == nil {
		return nil
	}
	rec, ok := v.(dataprovider.Record)
	if !ok {
		t.Fatalf("dept field is %T, not a record", v)
	}
	return rec
}

func TestJoinScenario(t *testing.T) {
	dp, err := New(employeeProvider(), Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: departmentProvider()}},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rows := fetchAll(t, dp, dataprovider.FetchListParams{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].Data["id"] != 1 || rows[0].Data["deptId"] != 10 {
		t.Errorf("base fields lost: %v", rows[0].Data)
	}
	if name := deptOf(t, rows[0])["name"]; name != "Eng" {
		t.Errorf("expected row 1 joined to Eng, got %v", name)
	}
	if name := deptOf(t, rows[1])["name"]; name != "Sales" {
		t.Errorf("expected row 2 joined to Sales, got %v", name)
	}
}

func TestJoinNullForeignKey(t *testing.T) {
	base := memory.New("employees", "id", []dataprovider.Record{
		{"id": 1, "deptId": 10},
		{"id": 2, "deptId": nil},
	})
	dept := counting(departmentProvider())

	dp, err := New(base, Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: dept}},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rows := fetchAll(t, dp, dataprovider.FetchListParams{})
	if deptOf(t, rows[0])["name"] != "Eng" {
		t.Errorf("expected row 1 joined, got %v", rows[0].Data["dept"])
	}
	if got := deptOf(t, rows[1]); got != nil {
		t.Errorf("expected nil dept for null foreign key, got %v", got)
	}

	// The batched call still happens for the alias, carrying only the
	// non-nil key.
	if dept.callCount() != 1 {
		t.Fatalf("expected 1 batched call, got %d", dept.callCount())
	}
	if len(dept.keys[0]) != 1 || dept.keys[0][0] != 10 {
		t.Errorf("expected keys [10] with nil filtered, got %v", dept.keys[0])
	}
}

func TestJoinIdentityWithZeroJoins(t *testing.T) {
	dp, err := New(employeeProvider(), Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rows := fetchAll(t, dp, dataprovider.FetchListParams{})
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, row := range rows {
		if len(row.Data) != 2 {
			t.Errorf("expected rows unchanged, got %v", row.Data)
		}
	}
}

func TestJoinOneBatchedCallPerAliasPerPage(t *testing.T) {
	dept := counting(departmentProvider())
	dp, err := New(employeeProvider(), Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: dept}},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// One page holding both rows: exactly one lookup, not one per row.
	fetchAll(t, dp, dataprovider.FetchListParams{Size: 10})
	if dept.callCount() != 1 {
		t.Errorf("expected 1 call for the page, got %d", dept.callCount())
	}
	if len(dept.keys[0]) != 2 {
		t.Errorf("expected both keys in one call, got %v", dept.keys[0])
	}

	// Two pages of one row each: one lookup per page.
	fetchAll(t, dp, dataprovider.FetchListParams{Size: 1})
	if dept.callCount() != 3 {
		t.Errorf("expected 3 total calls after paging, got %d", dept.callCount())
	}
}

func TestJoinDeduplicatesKeys(t *testing.T) {
	base := memory.New("employees", "id", []dataprovider.Record{
		{"id": 1, "deptId": 10},
		{"id": 2, "deptId": 10},
		{"id": 3, "deptId": 20},
	})
	dept := counting(departmentProvider())

	dp, _ := New(base, Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: dept}},
	})

	rows := fetchAll(t, dp, dataprovider.FetchListParams{})
	if len(dept.keys[0]) != 2 {
		t.Errorf("expected unique keys [10 20], got %v", dept.keys[0])
	}
	if deptOf(t, rows[0])["name"] != "Eng" || deptOf(t, rows[1])["name"] != "Eng" {
		t.Error("expected both rows joined to the shared department")
	}
}

func TestJoinCompositeForeignKey(t *testing.T) {
	base := memory.New("shipments", "id", []dataprovider.Record{
		{"id": 1, "a": 1, "b": 2},
	})
	zones := counting(memory.New("zones", "key", []dataprovider.Record{
		{"key": []any{1, 2}, "label": "Z12"},
	}))

	dp, _ := New(base, Options{
		Joins: []Join{{Alias: "zone", ForeignKeys: []string{"a", "b"}, Provider: zones}},
	})

	rows := fetchAll(t, dp, dataprovider.FetchListParams{})

	if zones.callCount() != 1 {
		t.Fatalf("expected 1 call, got %d", zones.callCount())
	}
	key, ok := zones.keys[0][0].([]any)
	if !ok || len(key) != 2 || key[0] != 1 || key[1] != 2 {
		t.Errorf("expected ordered pair [1 2], got %v", zones.keys[0][0])
	}
	zone := rows[0].Data["zone"].(dataprovider.Record)
	if zone["label"] != "Z12" {
		t.Errorf("expected zone Z12, got %v", zone)
	}
}

func TestJoinProjectionSkipsUnrequestedAlias(t *testing.T) {
	dept := counting(departmentProvider())
	site := counting(memory.New("sites", "id", []dataprovider.Record{
		{"id": 10, "city": "Oslo"},
	}))

	base := memory.New("employees", "id", []dataprovider.Record{
		{"id": 1, "deptId": 10, "siteId": 10},
	})
	dp, _ := New(base, Options{
		Joins: []Join{
			{Alias: "dept", ForeignKey: "deptId", Provider: dept},
			{Alias: "site", ForeignKey: "siteId", Provider: site},
		},
	})

	rows := fetchAll(t, dp, dataprovider.FetchListParams{
		Attributes: dataprovider.Attrs("id", "dept"),
	})

	if dept.callCount() != 1 {
		t.Errorf("expected requested alias fetched, got %d calls", dept.callCount())
	}
	if site.callCount() != 0 {
		t.Errorf("expected unrequested alias skipped, got %d calls", site.callCount())
	}
	if _, ok := rows[0].Data["site"]; ok {
		t.Error("expected site field left unset")
	}
	if deptOf(t, rows[0]) == nil {
		t.Error("expected dept joined")
	}
}

func TestJoinAliasProjectionForwarded(t *testing.T) {
	dept := counting(departmentProvider())
	dp, _ := New(employeeProvider(), Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: dept}},
	})

	rows := fetchAll(t, dp, dataprovider.FetchListParams{
		Attributes: []dataprovider.Attribute{
			{Name: "id"},
			{Name: "dept", Attributes: dataprovider.Attrs("name")},
		},
	})

	if len(dept.attrs[0]) != 1 || dept.attrs[0][0].Name != "name" {
		t.Errorf("expected alias projection forwarded to joined provider, got %v", dept.attrs[0])
	}
	got := deptOf(t, rows[0])
	if len(got) != 1 || got["name"] != "Eng" {
		t.Errorf("expected projected dept {name: Eng}, got %v", got)
	}
}

func TestJoinNoProjectionEquivalentToFullProjection(t *testing.T) {
	newDP := func() dataprovider.DataProvider {
		dp, err := New(employeeProvider(), Options{
			Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: departmentProvider()}},
		})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		return dp
	}

	implicit := fetchAll(t, newDP(), dataprovider.FetchListParams{})
	explicit := fetchAll(t, newDP(), dataprovider.FetchListParams{
		Attributes: dataprovider.Attrs("id", "deptId", "dept"),
	})

	if len(implicit) != len(explicit) {
		t.Fatalf("row count mismatch: %d vs %d", len(implicit), len(explicit))
	}
	for i := range implicit {
		for field := range implicit[i].Data {
			if _, ok := explicit[i].Data[field]; !ok {
				t.Errorf("row %d: field %q missing from explicit projection", i, field)
			}
		}
		for field := range explicit[i].Data {
			if _, ok := implicit[i].Data[field]; !ok {
				t.Errorf("row %d: field %q missing from implicit projection", i, field)
			}
		}
	}
}

func TestJoinNilProviderLeavesAliasUnset(t *testing.T) {
	dp, err := New(employeeProvider(), Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: nil}},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rows := fetchAll(t, dp, dataprovider.FetchListParams{})
	if _, ok := rows[0].Data["dept"]; ok {
		t.Error("expected alias unset for nil joined provider")
	}
}

func TestJoinAbsentDescriptorYieldsNull(t *testing.T) {
	dept := counting(departmentProvider())
	dp, err := New(employeeProvider(), Options{
		Joins: []Join{{Alias: "dept", Provider: dept}},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rows := fetchAll(t, dp, dataprovider.FetchListParams{})
	if got := deptOf(t, rows[0]); got != nil {
		t.Errorf("expected nil join without descriptor, got %v", got)
	}
	if dept.callCount() != 0 {
		t.Errorf("expected no provider calls without keys, got %d", dept.callCount())
	}
}

func TestJoinIterationProviderStillJoins(t *testing.T) {
	dept := &iterationProvider{DataProvider: departmentProvider()}
	dp, _ := New(employeeProvider(), Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: dept}},
	})

	rows := fetchAll(t, dp, dataprovider.FetchListParams{})
	if deptOf(t, rows[0])["name"] != "Eng" {
		t.Error("expected join to proceed despite missing batch capability")
	}
}

func TestJoinErrorPropagates(t *testing.T) {
	boom := errors.New("backend down")
	dept := &failingProvider{DataProvider: departmentProvider(), err: boom}

	dp, _ := New(employeeProvider(), Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: dept}},
	})

	it := dp.FetchFirst(context.Background(), dataprovider.FetchListParams{})
	defer it.Close()

	_, _, err := it.Next(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("expected provider failure to propagate untouched, got %v", err)
	}
}

func TestFetchByKeysJoinsFoundRowsOnly(t *testing.T) {
	dp, _ := New(employeeProvider(), Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: departmentProvider()}},
	})

	res, err := dp.FetchByKeys(context.Background(), dataprovider.FetchByKeysParams{
		Keys: []any{1, 99},
	})
	if err != nil {
		t.Fatalf("FetchByKeys failed: %v", err)
	}
	if res.Results.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", res.Results.Len())
	}
	if res.Results.Has(99) {
		t.Error("expected absent base key to stay absent")
	}
	item, _ := res.Results.Get(1)
	if deptOf(t, item)["name"] != "Eng" {
		t.Errorf("expected joined row, got %v", item.Data)
	}
}

func TestFetchByOffsetPreservesDone(t *testing.T) {
	dp, _ := New(employeeProvider(), Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: departmentProvider()}},
	})

	res, err := dp.FetchByOffset(context.Background(), dataprovider.FetchByOffsetParams{
		Offset: 0, Size: 1,
	})
	if err != nil {
		t.Fatalf("FetchByOffset failed: %v", err)
	}
	if res.Done {
		t.Error("expected Done=false from base preserved")
	}
	if deptOf(t, res.Results[0])["name"] != "Eng" {
		t.Errorf("expected joined window row, got %v", res.Results[0].Data)
	}

	res, err = dp.FetchByOffset(context.Background(), dataprovider.FetchByOffsetParams{
		Offset: 1, Size: 5,
	})
	if err != nil {
		t.Fatalf("FetchByOffset failed: %v", err)
	}
	if !res.Done {
		t.Error("expected Done=true from base preserved")
	}
}

func TestCapabilitySortAndFilterAlwaysNil(t *testing.T) {
	base := employeeProvider()
	if base.Capability(dataprovider.CapabilitySort) == nil {
		t.Fatal("test requires a base provider that supports sort")
	}

	dp, _ := New(base, Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: departmentProvider()}},
	})

	if dp.Capability(dataprovider.CapabilitySort) != nil {
		t.Error("expected nil sort capability")
	}
	if dp.Capability(dataprovider.CapabilityFilter) != nil {
		t.Error("expected nil filter capability")
	}
	if !dataprovider.SupportsBatchLookup(dp) {
		t.Error("expected fetchByKeys capability delegated to base")
	}
}

func TestDelegatedQueries(t *testing.T) {
	dp, _ := New(employeeProvider(), Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: departmentProvider()}},
	})
	ctx := context.Background()

	if n, _ := dp.TotalSize(ctx); n != 2 {
		t.Errorf("expected total size 2, got %d", n)
	}
	if empty, _ := dp.IsEmpty(ctx); empty != dataprovider.EmptyNo {
		t.Errorf("expected non-empty, got %s", empty)
	}
	res, err := dp.ContainsKeys(ctx, dataprovider.ContainsKeysParams{Keys: []any{2, 5}})
	if err != nil {
		t.Fatalf("ContainsKeys failed: %v", err)
	}
	if len(res.Results) != 1 || res.Results[0] != 2 {
		t.Errorf("expected [2], got %v", res.Results)
	}
}

func TestBaseEventsForwarded(t *testing.T) {
	base := employeeProvider()
	dp, _ := New(base, Options{
		Joins: []Join{{Alias: "dept", ForeignKey: "deptId", Provider: departmentProvider()}},
	})

	var got []event.Event
	dp.Events().Subscribe(event.TypeMutate, func(e event.Event) { got = append(got, e) })

	base.Add(dataprovider.Record{"id": 3, "deptId": 10})
	if len(got) != 1 || got[0].Add == nil {
		t.Fatalf("expected forwarded mutate event, got %+v", got)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	base := employeeProvider()

	_, err := New(nil, Options{})
	if !dperrors.HasCode(err, dperrors.ErrCodeInvalidOptions) {
		t.Errorf("expected INVALID_OPTIONS for nil base, got %v", err)
	}

	_, err = New(base, Options{Joins: []Join{{Alias: ""}}})
	if !dperrors.HasCode(err, dperrors.ErrCodeInvalidOptions) {
		t.Errorf("expected INVALID_OPTIONS for missing alias, got %v", err)
	}

	_, err = New(base, Options{Joins: []Join{
		{Alias: "dept", ForeignKey: "deptId"},
		{Alias: "dept", ForeignKey: "other"},
	}})
	if !dperrors.HasCode(err, dperrors.ErrCodeInvalidOptions) {
		t.Errorf("expected INVALID_OPTIONS for duplicate alias, got %v", err)
	}

	_, err = New(base, Options{Joins: []Join{
		{Alias: "dept", ForeignKey: "deptId", ForeignKeys: []string{"a"}},
	}})
	if !dperrors.HasCode(err, dperrors.ErrCodeInvalidOptions) {
		t.Errorf("expected INVALID_OPTIONS for double descriptor, got %v", err)
	}
}

func TestAliasesStableOrder(t *testing.T) {
	dp, _ := New(employeeProvider(), Options{
		Joins: []Join{
			{Alias: "b", ForeignKey: "deptId"},
			{Alias: "a", ForeignKey: "deptId"},
		},
	})

	got := dp.Aliases()
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("expected declaration order [b a], got %v", got)
	}
}
