// Package joining provides a DataProvider adapter that performs
// client-side relational joins across providers.
//
// A joining provider wraps a base provider and a set of join
// declarations. Each join names an alias, the foreign-key field(s) on
// the base records, and the provider holding the related rows. On every
// fetch, the adapter fetches a page from the base provider, resolves
// each row's foreign keys, issues one batched key lookup per alias, and
// merges the related record into the row under the alias field:
//
//	emp := memory.New("employees", "id", employeeRecords)
//	dept := memory.New("departments", "id", departmentRecords)
//
//	dp, err := joining.New(emp, joining.Options{
//	    Joins: []joining.Join{
//	        {Alias: "dept", ForeignKey: "deptId", Provider: dept},
//	    },
//	})
//
// Rows come back augmented in place: {"id": 1, "deptId": 10, "dept": {...}}.
// Paging, filtering, and sorting are delegated to the base provider for
// base attributes only; the adapter reports no sort or filter
// capability of its own, since neither would be correct across joined
// fields.
package joining
