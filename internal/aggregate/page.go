package aggregate

import "strconv"

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 10
	MaxLimit     int64 = 100
)

// PageOptions selects one page of results. Values are always positive.
type PageOptions struct {
	Page  int64
	Limit int64
}

// ParsePageOptions reads raw query values. Missing, non numeric and non
// positive values fall back to the defaults, and the limit is capped.
func ParsePageOptions(page, limit string) PageOptions {
	return PageOptions{
		Page:  parsePositive(page, DefaultPage),
		Limit: parsePositive(limit, DefaultLimit),
	}.normalize()
}

func (o PageOptions) normalize() PageOptions {
	if o.Page < 1 {
		o.Page = DefaultPage
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	return o
}

// Skip is the number of documents before the page.
func (o PageOptions) Skip() int64 {
	o = o.normalize()
	return (o.Page - 1) * o.Limit
}

func parsePositive(raw string, fallback int64) int64 {
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// Page is one page of results together with navigation metadata.
type Page[T any] struct {
	Docs          []T    `json:"docs"`
	TotalDocs     int64  `json:"totalDocs"`
	Limit         int64  `json:"limit"`
	Page          int64  `json:"page"`
	TotalPages    int64  `json:"totalPages"`
	PagingCounter int64  `json:"pagingCounter"`
	HasPrevPage   bool   `json:"hasPrevPage"`
	HasNextPage   bool   `json:"hasNextPage"`
	PrevPage      *int64 `json:"prevPage"`
	NextPage      *int64 `json:"nextPage"`
}

// NewPage computes the metadata for docs, which must already be the
// requested slice of total matching documents.
func NewPage[T any](docs []T, total int64, opts PageOptions) *Page[T] {
	opts = opts.normalize()
	if docs == nil {
		docs = []T{}
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages < 1 {
		totalPages = 1
	}

	p := &Page[T]{
		Docs:          docs,
		TotalDocs:     total,
		Limit:         opts.Limit,
		Page:          opts.Page,
		TotalPages:    totalPages,
		PagingCounter: opts.Skip() + 1,
		HasPrevPage:   opts.Page > 1,
		HasNextPage:   opts.Page < totalPages,
	}
	if p.HasPrevPage {
		prev := opts.Page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := opts.Page + 1
		p.NextPage = &next
	}
	return p
}

// SlicePage paginates an in-memory result set.
func SlicePage[T any](all []T, opts PageOptions) *Page[T] {
	opts = opts.normalize()
	total := int64(len(all))
	start := opts.Skip()
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	docs := make([]T, end-start)
	copy(docs, all[start:end])
	return NewPage(docs, total, opts)
}

// Empty reports whether the page holds no documents.
func (p *Page[T]) Empty() bool {
	return len(p.Docs) == 0
}
