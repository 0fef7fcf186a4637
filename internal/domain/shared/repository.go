package shared

// Pagination limits applied to every list query
const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Filter represents list query options
type Filter struct {
	Limit    int
	Offset   int
	OrderBy  string
	OrderDir string
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Limit:    DefaultLimit,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}

// Normalized returns a copy with limit, offset and ordering clamped to sane values
func (f Filter) Normalized() Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
	return f
}
