package joining

import (
	"context"
	"sync"

	"github.com/kbukum/datakit/dataprovider"
	"github.com/kbukum/datakit/logger"
)

// aliasFetch tracks one join's work for a single page: the positional
// keys resolved from the page's rows and the batched lookup result.
type aliasFetch struct {
	spec Join
	keys []any
	res  *dataprovider.FetchByKeysResult
}

// joinPage augments each row of a base page with one field per alias
// holding the joined record's data, or nil when no related row exists.
// The page's rows are mutated in place; nil rows are left untouched.
//
// All alias lookups for the page are issued concurrently, one batched
// FetchByKeys per alias, and the page is not released until every
// lookup has settled. Any lookup failure fails the whole page.
func (p *Provider) joinPage(ctx context.Context, rows []dataprovider.Item, part partition) error {
	if len(rows) == 0 || len(p.joins) == 0 {
		return nil
	}

	fetches := make([]*aliasFetch, 0, len(p.joins))
	for _, spec := range p.joins {
		// Only fetch what was asked for: aliases excluded by the
		// caller's projection are skipped for this call.
		if !part.aliasRequested(spec.Alias) {
			continue
		}
		if spec.Provider == nil {
			continue
		}
		fetches = append(fetches, &aliasFetch{spec: spec, keys: resolveKeys(rows, spec)})
	}
	if len(fetches) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errs := make([]error, len(fetches))
	for i, f := range fetches {
		keys := uniqueKeys(f.keys)
		if len(keys) == 0 {
			// Every row resolved to a nil key; the alias still gets
			// nil assigned in the merge pass, without a provider call.
			continue
		}
		if !dataprovider.SupportsBatchLookup(f.spec.Provider) {
			p.log.Warn("joined provider does not advertise batched key lookup, join may be slow",
				logger.Fields(logger.FieldAlias, f.spec.Alias, logger.FieldKeys, len(keys)))
		}

		wg.Add(1)
		go func(i int, f *aliasFetch, keys []any) {
			defer wg.Done()
			res, err := f.spec.Provider.FetchByKeys(ctx, dataprovider.FetchByKeysParams{
				Keys:       keys,
				Attributes: part.aliasAttributes(f.spec.Alias),
			})
			if err != nil {
				errs[i] = err
				return
			}
			f.res = res
		}(i, f, keys)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	for _, f := range fetches {
		mergeAlias(rows, f)
	}
	return nil
}

// mergeAlias maps each row's resolved key back into the alias's fetch
// result and assigns the joined data under the alias field.
func mergeAlias(rows []dataprovider.Item, f *aliasFetch) {
	for i := range rows {
		if rows[i].Data == nil {
			continue
		}
		var joined any
		if key := f.keys[i]; key != nil && f.res != nil {
			if item, ok := f.res.Results.Get(key); ok && item.Data != nil {
				joined = item.Data
			}
		}
		rows[i].Data[f.spec.Alias] = joined
	}
}

// uniqueKeys drops nil keys and duplicates while preserving order, so
// each alias lookup carries each key exactly once.
func uniqueKeys(keys []any) []any {
	seen := dataprovider.NewKeyMap()
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		if k == nil || seen.Has(k) {
			continue
		}
		seen.Set(k, dataprovider.Item{})
		out = append(out, k)
	}
	return out
}
