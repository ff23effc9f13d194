package analytics

// Options are the boundary-parsed request options for an analytics request.
// All fields are optional; zero values mean "not requested". Malformed
// numerics are rejected upstream, the compiler only sees parsed values.
type Options struct {
	TimeRange   string
	Category    string
	MinViews    int
	MinVotes    int
	MinComments int
	SortBy      string
	ActiveOnly  bool
}

// Field identifies what a filter clause constrains.
type Field string

const (
	FieldTagName  Field = "tag_name" // substring match through tag membership
	FieldViews    Field = "views"    // per-product all-time view count
	FieldVotes    Field = "votes"    // per-product all-time vote count
	FieldComments Field = "comments" // per-product all-time comment count
	FieldStatus   Field = "status"   // product status
)

// Op is the comparison operator of a filter clause.
type Op string

const (
	OpContains Op = "contains"
	OpGTE      Op = ">="
	OpEQ       Op = "="
)

// Clause is one predicate of a compiled filter.
type Clause struct {
	Field Field
	Op    Op
	Value any
}

// CompiledFilter is an ordered conjunction of clauses. An empty filter is
// the identity: all products pass. Every aggregate computation must apply
// the same compiled filter; building it once per request and passing it by
// reference is what rules out filter drift between computations.
type CompiledFilter struct {
	Clauses []Clause
}

// IsEmpty reports whether the filter constrains anything at all.
func (f CompiledFilter) IsEmpty() bool {
	return len(f.Clauses) == 0
}

// Compile turns sparse filter options into a compiled filter. Numeric
// thresholds are only included when > 0, so zero and absent are equivalent
// and "exactly zero" cannot be expressed as a filter. Category matches as a
// case-sensitive substring against tag names. The compiler never executes
// anything against the store.
func Compile(opts Options) CompiledFilter {
	var f CompiledFilter

	if opts.Category != "" {
		f.Clauses = append(f.Clauses, Clause{Field: FieldTagName, Op: OpContains, Value: opts.Category})
	}
	if opts.MinViews > 0 {
		f.Clauses = append(f.Clauses, Clause{Field: FieldViews, Op: OpGTE, Value: opts.MinViews})
	}
	if opts.MinVotes > 0 {
		f.Clauses = append(f.Clauses, Clause{Field: FieldVotes, Op: OpGTE, Value: opts.MinVotes})
	}
	if opts.MinComments > 0 {
		f.Clauses = append(f.Clauses, Clause{Field: FieldComments, Op: OpGTE, Value: opts.MinComments})
	}
	if opts.ActiveOnly {
		f.Clauses = append(f.Clauses, Clause{Field: FieldStatus, Op: OpEQ, Value: "active"})
	}

	return f
}
