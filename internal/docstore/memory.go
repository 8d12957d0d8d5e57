package docstore

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryClient is an in-process document store. It supports the query subset the
// repositories use: top-level equality (matching array elements), $eq, $ne,
// $exists and $in, multi-key sort, limit, projection, $set updates and unique
// (optionally partial) indexes. Aggregation and search indexes are unsupported.
//
// Documents are normalized through a BSON round trip on every write, so values
// are stored with the same Go types the MongoDB driver would decode.
type MemoryClient struct {
	mu  sync.Mutex
	dbs map[string]*memoryDatabase
}

// NewMemoryClient creates an empty store.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{dbs: make(map[string]*memoryDatabase)}
}

// Database returns the named database, creating it on first use.
func (c *MemoryClient) Database(name string) Database {
	c.mu.Lock()
	defer c.mu.Unlock()

	db, ok := c.dbs[name]
	if !ok {
		db = &memoryDatabase{name: name, colls: make(map[string]*memoryCollection)}
		c.dbs[name] = db
	}
	return db
}

// Disconnect is a no-op; data outlives connections so that several managers can
// share one store.
func (c *MemoryClient) Disconnect(context.Context) error {
	return nil
}

type memoryDatabase struct {
	name  string
	mu    sync.Mutex
	colls map[string]*memoryCollection
}

func (d *memoryDatabase) Name() string {
	return d.name
}

func (d *memoryDatabase) Collection(name string) Collection {
	d.mu.Lock()
	defer d.mu.Unlock()

	coll, ok := d.colls[name]
	if !ok {
		coll = &memoryCollection{dbName: d.name, name: name}
		d.colls[name] = coll
	}
	return coll
}

type memoryCollection struct {
	dbName  string
	name    string
	mu      sync.RWMutex
	docs    []bson.D
	indexes []IndexModel
}

func (c *memoryCollection) Name() string {
	return c.name
}

func (c *memoryCollection) DatabaseName() string {
	return c.dbName
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc bson.D) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapError(err)
	}

	stored, err := normalize(doc)
	if err != nil {
		return nil, err
	}

	id, ok := Lookup(stored, "_id")
	if !ok {
		id = bson.NewObjectID()
		stored = append(bson.D{{Key: "_id", Value: id}}, stored...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.docs {
		if existingID, _ := Lookup(existing, "_id"); valuesEqual(existingID, id) {
			return nil, fmt.Errorf("%w: _id", ErrDuplicateKey)
		}
	}
	if err := c.checkUnique(stored, -1); err != nil {
		return nil, err
	}

	c.docs = append(c.docs, stored)
	return id, nil
}

func (c *memoryCollection) Find(ctx context.Context, filter bson.D, opts *FindOptions) ([]bson.D, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapError(err)
	}

	filter, err := normalize(filter)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	var matched []bson.D
	for _, doc := range c.docs {
		ok, err := matchesFilter(doc, filter)
		if err != nil {
			c.mu.RUnlock()
			return nil, err
		}
		if ok {
			matched = append(matched, doc)
		}
	}
	c.mu.RUnlock()

	if opts != nil && len(opts.Sort) > 0 {
		sortDocuments(matched, opts.Sort)
	}
	if opts != nil && opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	results := make([]bson.D, 0, len(matched))
	for _, doc := range matched {
		out, err := c.output(doc, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, out)
	}
	return results, nil
}

func (c *memoryCollection) FindOne(ctx context.Context, filter bson.D, opts *FindOptions) (bson.D, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapError(err)
	}

	filter, err := normalize(filter)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, err := c.indexOf(filter)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, ErrDocumentNotFound
	}
	return c.output(c.docs[idx], opts)
}

func (c *memoryCollection) FindOneAndSet(
	ctx context.Context,
	filter bson.D,
	set bson.D,
	opts *FindOptions,
) (bson.D, error) {
	if err := ctx.Err(); err != nil {
		return nil, mapError(err)
	}

	filter, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	set, err = normalize(set)
	if err != nil {
		return nil, err
	}
	for _, e := range set {
		if e.Key == "_id" || strings.ContainsAny(e.Key, ".$") {
			return nil, fmt.Errorf("%w: $set on %q", ErrUnsupported, e.Key)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := c.indexOf(filter)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, ErrDocumentNotFound
	}

	updated := slices.Clone(c.docs[idx])
	for _, e := range set {
		updated = setField(updated, e.Key, e.Value)
	}
	if err := c.checkUnique(updated, idx); err != nil {
		return nil, err
	}

	c.docs[idx] = updated
	return c.output(updated, opts)
}

func (c *memoryCollection) DeleteOne(ctx context.Context, filter bson.D) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, mapError(err)
	}

	filter, err := normalize(filter)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx, err := c.indexOf(filter)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		return 0, nil
	}
	c.docs = slices.Delete(c.docs, idx, idx+1)
	return 1, nil
}

func (c *memoryCollection) Aggregate(context.Context, []bson.D) ([]bson.D, error) {
	return nil, fmt.Errorf("%w: aggregate", ErrUnsupported)
}

func (c *memoryCollection) CreateIndex(ctx context.Context, model IndexModel) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", mapError(err)
	}
	if len(model.Keys) == 0 {
		return "", fmt.Errorf("%w: index without keys", ErrUnsupported)
	}

	name := model.Name
	if name == "" {
		name = defaultIndexName(model.Keys)
	}
	model.Name = name

	var err error
	if model.PartialFilter, err = normalize(model.PartialFilter); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.indexes {
		sameName := existing.Name == name
		if !sameName && !sameKeys(existing, model) {
			continue
		}
		if sameIndex(existing, model) {
			return existing.Name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrIndexConflict, existing.Name)
	}

	if model.Unique {
		seen := make(map[string]struct{})
		for _, doc := range c.docs {
			entries, indexed, err := indexEntries(doc, model)
			if err != nil {
				return "", err
			}
			if !indexed {
				continue
			}
			for _, entry := range entries {
				if _, dup := seen[entry]; dup {
					return "", fmt.Errorf("%w: building index %s", ErrDuplicateKey, name)
				}
				seen[entry] = struct{}{}
			}
		}
	}

	c.indexes = append(c.indexes, model)
	return name, nil
}

func (c *memoryCollection) CreateSearchIndex(context.Context, SearchIndexModel) (string, error) {
	return "", fmt.Errorf("%w: search indexes", ErrUnsupported)
}

// indexOf returns the position of the first matching document or -1.
// Callers hold the lock.
func (c *memoryCollection) indexOf(filter bson.D) (int, error) {
	for i, doc := range c.docs {
		ok, err := matchesFilter(doc, filter)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

// checkUnique verifies doc against every unique index, ignoring the document at
// position skip. Callers hold the write lock.
func (c *memoryCollection) checkUnique(doc bson.D, skip int) error {
	for _, idx := range c.indexes {
		if !idx.Unique {
			continue
		}
		entries, indexed, err := indexEntries(doc, idx)
		if err != nil {
			return err
		}
		if !indexed || len(entries) == 0 {
			continue
		}
		for i, existing := range c.docs {
			if i == skip {
				continue
			}
			existingEntries, ok, err := indexEntries(existing, idx)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			for _, entry := range entries {
				if slices.Contains(existingEntries, entry) {
					return fmt.Errorf("%w: index %s", ErrDuplicateKey, idx.Name)
				}
			}
		}
	}
	return nil
}

// output returns a detached copy of doc with the projection applied.
func (c *memoryCollection) output(doc bson.D, opts *FindOptions) (bson.D, error) {
	out, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	if opts == nil || len(opts.Projection) == 0 {
		return out, nil
	}
	return project(out, opts.Projection), nil
}

func normalize(doc bson.D) (bson.D, error) {
	if doc == nil {
		return bson.D{}, nil
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	var out bson.D
	if err := bson.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if out == nil {
		out = bson.D{}
	}
	return out, nil
}

func matchesFilter(doc, filter bson.D) (bool, error) {
	for _, cond := range filter {
		if strings.HasPrefix(cond.Key, "$") {
			return false, fmt.Errorf("%w: filter operator %s", ErrUnsupported, cond.Key)
		}
		actual, present := Lookup(doc, cond.Key)

		ops, isOperator := operatorDoc(cond.Value)
		if !isOperator {
			if !present {
				if cond.Value != nil {
					return false, nil
				}
				continue
			}
			if !valueMatches(actual, cond.Value) {
				return false, nil
			}
			continue
		}

		for _, op := range ops {
			switch op.Key {
			case "$eq":
				if !present || !valueMatches(actual, op.Value) {
					return false, nil
				}
			case "$ne":
				if present && valueMatches(actual, op.Value) {
					return false, nil
				}
			case "$exists":
				if present != truthy(op.Value) {
					return false, nil
				}
			case "$in":
				candidates, ok := op.Value.(bson.A)
				if !ok {
					return false, fmt.Errorf("%w: $in requires an array", ErrUnsupported)
				}
				found := false
				for _, candidate := range candidates {
					if present && valueMatches(actual, candidate) {
						found = true
						break
					}
				}
				if !found {
					return false, nil
				}
			default:
				return false, fmt.Errorf("%w: filter operator %s", ErrUnsupported, op.Key)
			}
		}
	}
	return true, nil
}

func operatorDoc(v any) (bson.D, bool) {
	d, ok := v.(bson.D)
	if !ok || len(d) == 0 {
		return nil, false
	}
	return d, strings.HasPrefix(d[0].Key, "$")
}

// valueMatches mirrors MongoDB equality: an array field matches when the whole
// array or any element equals the expected value.
func valueMatches(actual, expected any) bool {
	if valuesEqual(actual, expected) {
		return true
	}
	if arr, ok := actual.(bson.A); ok {
		for _, el := range arr {
			if valuesEqual(el, expected) {
				return true
			}
		}
	}
	return false
}

func valuesEqual(a, b any) bool {
	ta, da, errA := marshalValue(a)
	tb, db, errB := marshalValue(b)
	if errA != nil || errB != nil {
		return false
	}
	return ta == tb && bytes.Equal(da, db)
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return v != nil
	}
}

func setField(doc bson.D, key string, value any) bson.D {
	for i := range doc {
		if doc[i].Key == key {
			doc[i].Value = value
			return doc
		}
	}
	return append(doc, bson.E{Key: key, Value: value})
}

func project(doc, projection bson.D) bson.D {
	include := false
	for _, p := range projection {
		if truthy(p.Value) && p.Key != "_id" {
			include = true
			break
		}
	}

	out := bson.D{}
	for _, e := range doc {
		spec, listed := Lookup(projection, e.Key)
		switch {
		case listed && !truthy(spec):
			continue
		case include && !listed && e.Key != "_id":
			continue
		}
		out = append(out, e)
	}
	return out
}

func sortDocuments(docs []bson.D, sortSpec bson.D) {
	slices.SortStableFunc(docs, func(a, b bson.D) int {
		for _, key := range sortSpec {
			av, _ := Lookup(a, key.Key)
			bv, _ := Lookup(b, key.Key)
			if c := compareValues(av, bv); c != 0 {
				if isNegative(key.Value) {
					return -c
				}
				return c
			}
		}
		return 0
	})
}

func isNegative(v any) bool {
	switch t := v.(type) {
	case int:
		return t < 0
	case int32:
		return t < 0
	case int64:
		return t < 0
	case float64:
		return t < 0
	}
	return false
}

// compareValues orders values of the same kind; nil sorts first and values of
// different kinds compare equal.
func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return cmp.Compare(af, bf)
		}
		return 0
	}

	switch av := a.(type) {
	case bson.DateTime:
		if bv, ok := b.(bson.DateTime); ok {
			return cmp.Compare(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return cmp.Compare(av, bv)
		}
	case bson.ObjectID:
		if bv, ok := b.(bson.ObjectID); ok {
			return bytes.Compare(av[:], bv[:])
		}
	case bool:
		if bv, ok := b.(bool); ok && av != bv {
			if av {
				return 1
			}
			return -1
		}
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

func defaultIndexName(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s_%v", k.Key, k.Value))
	}
	return strings.Join(parts, "_")
}

func sameKeys(a, b IndexModel) bool {
	ka, _ := bson.Marshal(a.Keys)
	kb, _ := bson.Marshal(b.Keys)
	return bytes.Equal(ka, kb)
}

func sameIndex(a, b IndexModel) bool {
	if a.Unique != b.Unique {
		return false
	}
	ka, _ := bson.Marshal(a.Keys)
	kb, _ := bson.Marshal(b.Keys)
	pa, _ := bson.Marshal(orEmpty(a.PartialFilter))
	pb, _ := bson.Marshal(orEmpty(b.PartialFilter))
	return bytes.Equal(ka, kb) && bytes.Equal(pa, pb)
}

// indexEntries returns the index keys doc contributes and whether doc is covered
// by the index at all (partial filter).
func indexEntries(doc bson.D, idx IndexModel) ([]string, bool, error) {
	if len(idx.PartialFilter) > 0 {
		ok, err := matchesFilter(doc, idx.PartialFilter)
		if err != nil || !ok {
			return nil, false, err
		}
	}

	if len(idx.Keys) == 1 {
		value, _ := Lookup(doc, idx.Keys[0].Key)
		if arr, ok := value.(bson.A); ok {
			entries := make([]string, 0, len(arr))
			for _, el := range arr {
				entries = append(entries, rawKey(el))
			}
			return entries, true, nil
		}
		return []string{rawKey(value)}, true, nil
	}

	var composite strings.Builder
	for _, key := range idx.Keys {
		value, _ := Lookup(doc, key.Key)
		composite.WriteString(rawKey(value))
		composite.WriteByte(0)
	}
	return []string{composite.String()}, true, nil
}

func rawKey(v any) string {
	t, data, err := marshalValue(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(append([]byte{byte(t)}, data...))
}

func marshalValue(v any) (bson.Type, []byte, error) {
	if v == nil {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(v)
}
