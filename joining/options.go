package joining

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/datakit/dataprovider"
	"github.com/kbukum/datakit/errors"
	"github.com/kbukum/datakit/logger"
)

var validate = validator.New()

// Transform maps the extracted foreign-key fields of one base record
// to the lookup key used against the joined provider. It receives a
// record holding only the declared foreign-key fields and must be pure.
type Transform func(fields dataprovider.Record) any

// Join declares one join: the alias under which related data is merged
// into base records, the foreign-key field(s) identifying the related
// row, and the provider holding it.
//
// Exactly one of ForeignKey and ForeignKeys may be set. Neither being
// set is legal and degrades to null joins for the alias. A nil Provider
// leaves the alias field unset on every row.
type Join struct {
	Alias       string `validate:"required"`
	ForeignKey  string
	ForeignKeys []string
	Transform   Transform
	Provider    dataprovider.DataProvider
}

// fields returns the declared foreign-key field names in order, or nil
// when no descriptor was declared.
func (j Join) fields() []string {
	if j.ForeignKey != "" {
		return []string{j.ForeignKey}
	}
	return j.ForeignKeys
}

// Options configures a joining provider. Joins are applied in
// declaration order; the alias set is fixed for the provider's
// lifetime. An empty join set is legal: the provider degrades to a
// pass-through over the base provider.
type Options struct {
	Joins []Join `validate:"dive"`

	// Logger overrides the default component logger.
	Logger *logger.Logger
}

func (o Options) validate() error {
	if err := validate.Struct(o); err != nil {
		return errors.InvalidOptions("invalid join options").WithCause(err)
	}
	seen := make(map[string]bool, len(o.Joins))
	for _, j := range o.Joins {
		if seen[j.Alias] {
			return errors.InvalidOptions(fmt.Sprintf("duplicate join alias %q", j.Alias))
		}
		seen[j.Alias] = true
		if j.ForeignKey != "" && len(j.ForeignKeys) > 0 {
			return errors.InvalidOptions(fmt.Sprintf(
				"join %q declares both ForeignKey and ForeignKeys", j.Alias))
		}
	}
	return nil
}
