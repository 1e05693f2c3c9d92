// Package pagination computes fixed-size pages over an ordered slice.
package pagination

// DefaultPageSize is used when a non-positive page size is requested.
const DefaultPageSize = 5

// Paginator tracks a 1-indexed current page over data.
//
// Replacing the data never moves the current page. If the data shrinks below
// the current page, Items returns an empty page until the caller goes back.
type Paginator[T any] struct {
	data     []T
	pageSize int
	page     int
}

// New creates a paginator positioned on page 1.
func New[T any](pageSize int) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Paginator[T]{pageSize: pageSize, page: 1}
}

// SetData replaces the paginated sequence.
func (p *Paginator[T]) SetData(data []T) {
	p.data = data
}

// PageSize returns the fixed page size.
func (p *Paginator[T]) PageSize() int {
	return p.pageSize
}

// CurrentPage returns the 1-indexed current page.
func (p *Paginator[T]) CurrentPage() int {
	return p.page
}

// SetPage restores a page number, e.g. from a session. Values below 1 become 1.
func (p *Paginator[T]) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	p.page = page
}

// TotalPages returns ceil(len(data)/pageSize), which is 0 for empty data.
func (p *Paginator[T]) TotalPages() int {
	return (len(p.data) + p.pageSize - 1) / p.pageSize
}

// DisplayTotalPages is TotalPages, but never less than 1.
func (p *Paginator[T]) DisplayTotalPages() int {
	if total := p.TotalPages(); total > 0 {
		return total
	}
	return 1
}

// Items returns the current page of data. Out-of-range pages are empty.
func (p *Paginator[T]) Items() []T {
	start := (p.page - 1) * p.pageSize
	end := p.page * p.pageSize
	if start < 0 || start >= len(p.data) {
		return []T{}
	}
	if end > len(p.data) {
		end = len(p.data)
	}
	return p.data[start:end]
}

// HasPrevious reports whether Back would move the page.
func (p *Paginator[T]) HasPrevious() bool {
	return p.page > 1
}

// HasNext reports whether Next would move the page.
func (p *Paginator[T]) HasNext() bool {
	return p.page < p.TotalPages()
}

// Back moves to the previous page, stopping at 1.
func (p *Paginator[T]) Back() {
	if p.HasPrevious() {
		p.page--
	}
}

// Next moves to the following page, stopping at the last one.
func (p *Paginator[T]) Next() {
	if p.HasNext() {
		p.page++
	}
}
