package joining

import "github.com/kbukum/datakit/dataprovider"

// resolveKeys extracts one lookup key per row for the given join.
// The result is positional: keys[i] belongs to rows[i]. Rows without a
// record and joins without a foreign-key descriptor yield nil keys.
func resolveKeys(rows []dataprovider.Item, spec Join) []any {
	keys := make([]any, len(rows))
	for i, row := range rows {
		keys[i] = resolveKey(row.Data, spec)
	}
	return keys
}

func resolveKey(rec dataprovider.Record, spec Join) any {
	if rec == nil {
		return nil
	}
	fields := spec.fields()
	if len(fields) == 0 {
		return nil
	}

	if spec.Transform != nil {
		extracted := make(dataprovider.Record, len(fields))
		for _, f := range fields {
			extracted[f] = rec[f]
		}
		return spec.Transform(extracted)
	}

	if spec.ForeignKey != "" {
		return rec[spec.ForeignKey]
	}

	// Composite key: field values in descriptor order.
	key := make([]any, len(fields))
	for i, f := range fields {
		key[i] = rec[f]
	}
	return key
}
