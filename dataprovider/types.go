package dataprovider

// Record is an arbitrary mapping of field name to value. Records are
// owned by the provider that produced them: adapters may augment them
// in place, so callers must copy before caching.
type Record map[string]any

// ItemMetadata carries the key identifying an item within its provider.
type ItemMetadata struct {
	Key any
}

// Item pairs a record with its metadata.
type Item struct {
	Metadata ItemMetadata
	Data     Record
}

// Attribute names a field in a projection request. A nil Attributes
// slice means "all fields" of the named attribute; a non-nil slice
// restricts the projection to the listed sub-attributes.
type Attribute struct {
	Name       string
	Attributes []Attribute
}

// Attrs builds a flat attribute list from plain field names.
func Attrs(names ...string) []Attribute {
	attrs := make([]Attribute, len(names))
	for i, name := range names {
		attrs[i] = Attribute{Name: name}
	}
	return attrs
}

// SortDirection orders a sort criterion.
type SortDirection string

const (
	SortAscending  SortDirection = "ascending"
	SortDescending SortDirection = "descending"
)

// SortCriterion sorts by a single attribute.
type SortCriterion struct {
	Attribute string
	Direction SortDirection
}

// Filter decides whether a record belongs to a filtered result set.
type Filter interface {
	Matches(rec Record) bool
}

// FilterOp is a comparison operator for AttributeFilter.
type FilterOp string

const (
	OpEquals      FilterOp = "$eq"
	OpNotEquals   FilterOp = "$ne"
	OpGreaterThan FilterOp = "$gt"
	OpLessThan    FilterOp = "$lt"
)

// AttributeFilter matches records by comparing one attribute's value.
type AttributeFilter struct {
	Attribute string
	Op        FilterOp
	Value     any
}

// Matches implements Filter.
func (f AttributeFilter) Matches(rec Record) bool {
	if rec == nil {
		return false
	}
	got, ok := rec[f.Attribute]
	if !ok {
		return false
	}
	switch f.Op {
	case OpEquals, "":
		return Compare(got, f.Value) == 0
	case OpNotEquals:
		return Compare(got, f.Value) != 0
	case OpGreaterThan:
		return Compare(got, f.Value) > 0
	case OpLessThan:
		return Compare(got, f.Value) < 0
	default:
		return false
	}
}

// Emptiness is the tri-state answer to IsEmpty.
type Emptiness string

const (
	EmptyYes     Emptiness = "yes"
	EmptyNo      Emptiness = "no"
	EmptyUnknown Emptiness = "unknown"
)

// FetchListParams shapes a FetchFirst call. A Size <= 0 falls back to
// the package default fetch size. A nil Attributes slice means no
// projection was requested: all fields are returned.
type FetchListParams struct {
	Size            int
	Attributes      []Attribute
	SortCriteria    []SortCriterion
	FilterCriterion Filter
	ClientID        string
}

// Page is one block of items produced by a PageIterator.
type Page struct {
	Items []Item
}

// FetchByKeysScope hints where a keyed fetch may look for rows.
type FetchByKeysScope string

const (
	ScopeLocal  FetchByKeysScope = "local"
	ScopeGlobal FetchByKeysScope = "global"
)

// FetchByKeysParams shapes a batched key lookup.
type FetchByKeysParams struct {
	Keys       []any
	Attributes []Attribute
	Scope      FetchByKeysScope
}

// FetchByKeysResult maps each found key to its item. Keys absent from
// the provider are simply absent from Results.
type FetchByKeysResult struct {
	Results *KeyMap
}

// ContainsKeysParams shapes a membership probe.
type ContainsKeysParams struct {
	Keys []any
}

// ContainsKeysResult lists the probed keys that exist in the provider.
type ContainsKeysResult struct {
	Results []any
}

// FetchByOffsetParams shapes a random-access window fetch.
type FetchByOffsetParams struct {
	Offset          int
	Size            int
	Attributes      []Attribute
	SortCriteria    []SortCriterion
	FilterCriterion Filter
	ClientID        string
}

// FetchByOffsetResult carries the window's items and whether the end
// of the collection was reached.
type FetchByOffsetResult struct {
	Results []Item
	Done    bool
}
