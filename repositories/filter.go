package repositories

import (
	"go.mongodb.org/mongo-driver/bson"
)

// Filter kinds
const (
	FilterEquals = "equals"
	FilterRange  = "range"
	FilterIn     = "in"
)

// Filter is a tagged predicate variant. List operations take a slice of
// these instead of a loosely-typed match object; BuildQuery is the single
// interpreter.
type Filter struct {
	Kind   string
	Field  string
	Value  interface{}   // equals
	From   interface{}   // range lower bound, inclusive
	To     interface{}   // range upper bound, inclusive
	Values []interface{} // in
}

// Equals builds an equality filter
func Equals(field string, value interface{}) Filter {
	return Filter{Kind: FilterEquals, Field: field, Value: value}
}

// Range builds an inclusive range filter; either bound may be nil
func Range(field string, from, to interface{}) Filter {
	return Filter{Kind: FilterRange, Field: field, From: from, To: to}
}

// In builds a membership filter
func In(field string, values ...interface{}) Filter {
	return Filter{Kind: FilterIn, Field: field, Values: values}
}

// BuildQuery interprets filters on top of a base query. Unknown kinds and
// empty range bounds are skipped.
func BuildQuery(base bson.M, filters []Filter) bson.M {
	query := bson.M{}
	for k, v := range base {
		query[k] = v
	}

	for _, f := range filters {
		switch f.Kind {
		case FilterEquals:
			query[f.Field] = f.Value
		case FilterRange:
			bounds := bson.M{}
			if f.From != nil {
				bounds["$gte"] = f.From
			}
			if f.To != nil {
				bounds["$lte"] = f.To
			}
			if len(bounds) > 0 {
				query[f.Field] = bounds
			}
		case FilterIn:
			query[f.Field] = bson.M{"$in": f.Values}
		}
	}

	return query
}
