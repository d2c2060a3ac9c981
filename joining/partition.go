package joining

import "github.com/kbukum/datakit/dataprovider"

// partition is the result of routing a caller's attribute-projection
// request between the base provider's namespace and the join aliases.
// It is computed per fetch call and never stored on the provider, so
// concurrent calls cannot race on it.
type partition struct {
	// base holds the attributes forwarded to the base provider,
	// including foreign-key fields appended when the caller did not
	// request them.
	base []dataprovider.Attribute
	// joined maps each requested alias to its nested attribute list.
	// A present alias with a nil list means "all fields of the join".
	joined map[string][]dataprovider.Attribute
	// noProjection is set when the caller requested no attributes at
	// all: every field of the base and of every alias is fetched.
	noProjection bool
}

// partitionAttributes classifies each requested attribute as a base
// attribute or a join attribute. An attribute whose name matches a
// declared alias is routed to that alias; everything else goes to the
// base provider unchanged.
func partitionAttributes(attrs []dataprovider.Attribute, joins []Join) partition {
	if attrs == nil {
		return partition{noProjection: true}
	}

	part := partition{joined: make(map[string][]dataprovider.Attribute)}

	aliases := make(map[string]bool, len(joins))
	for _, j := range joins {
		aliases[j.Alias] = true
	}

	for _, attr := range attrs {
		if !aliases[attr.Name] {
			part.base = append(part.base, attr)
			continue
		}
		existing, seen := part.joined[attr.Name]
		if !seen {
			part.joined[attr.Name] = attr.Attributes
			continue
		}
		// Duplicate alias entries merge their nested lists. A nil list
		// on either side widens the request to all fields.
		if existing == nil || attr.Attributes == nil {
			part.joined[attr.Name] = nil
			continue
		}
		part.joined[attr.Name] = mergeAttributes(existing, attr.Attributes)
	}

	// The base fetch must retrieve every declared foreign-key field
	// even when the caller did not request it, or there is nothing to
	// join on.
	have := make(map[string]bool, len(part.base))
	for _, a := range part.base {
		have[a.Name] = true
	}
	for _, j := range joins {
		for _, f := range j.fields() {
			if !have[f] {
				part.base = append(part.base, dataprovider.Attribute{Name: f})
				have[f] = true
			}
		}
	}

	return part
}

func mergeAttributes(a, b []dataprovider.Attribute) []dataprovider.Attribute {
	have := make(map[string]bool, len(a))
	for _, attr := range a {
		have[attr.Name] = true
	}
	merged := a
	for _, attr := range b {
		if !have[attr.Name] {
			merged = append(merged, attr)
			have[attr.Name] = true
		}
	}
	return merged
}

// baseAttributes returns the attribute list for the base fetch, nil
// when no projection was requested.
func (p partition) baseAttributes() []dataprovider.Attribute {
	if p.noProjection {
		return nil
	}
	return p.base
}

// aliasRequested reports whether the alias should be fetched at all.
func (p partition) aliasRequested(alias string) bool {
	if p.noProjection {
		return true
	}
	_, ok := p.joined[alias]
	return ok
}

// aliasAttributes returns the projection for one alias's lookup, nil
// meaning all fields.
func (p partition) aliasAttributes(alias string) []dataprovider.Attribute {
	if p.noProjection {
		return nil
	}
	return p.joined[alias]
}
