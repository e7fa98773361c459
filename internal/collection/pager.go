package collection

// State is the filter, sort and pagination configuration a page holds.
type State struct {
	Filters Filters
	Sort    string
	Page    int
	PerPage int
}

// Pager owns a page's State and applies the reset rules between derivations:
// any filter or sort change goes back to page 1, a page-size change keeps the
// page but re-clamps it against the new page count.
type Pager struct {
	state State
	// filtered is the match count of the last observed Result.
	filtered int
}

// NewPager starts on page 1 with no filters.
func NewPager(sort string, perPage int) *Pager {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Pager{state: State{
		Filters: Filters{},
		Sort:    sort,
		Page:    1,
		PerPage: perPage,
	}}
}

// State returns a copy of the current configuration.
func (p *Pager) State() State {
	s := p.state
	s.Filters = s.Filters.Clone()
	return s
}

// Restore replaces the configuration wholesale. Used to roll back a change
// whose derivation failed.
func (p *Pager) Restore(s State) {
	s.Filters = s.Filters.Clone()
	p.state = s
}

// Query builds the derivation input from the current state.
func (p *Pager) Query() Query {
	return Query{
		Filters: p.state.Filters.Clone(),
		Sort:    p.state.Sort,
		Page:    p.state.Page,
		PerPage: p.state.PerPage,
	}
}

// SetFilter changes one filter and returns to page 1.
func (p *Pager) SetFilter(key, value string) {
	p.state.Filters = p.state.Filters.With(key, value)
	p.state.Page = 1
}

// SetFilters replaces every filter and returns to page 1.
func (p *Pager) SetFilters(f Filters) {
	p.state.Filters = f.Clone()
	p.state.Page = 1
}

// ClearFilters drops every filter and returns to page 1.
func (p *Pager) ClearFilters() {
	p.SetFilters(Filters{})
}

// SetSort changes the sort key and returns to page 1.
func (p *Pager) SetSort(key string) {
	p.state.Sort = key
	p.state.Page = 1
}

// SetPage moves to page, clamped against the last observed page count.
func (p *Pager) SetPage(page int) {
	p.state.Page = ClampPage(page, TotalPages(p.filtered, p.state.PerPage))
}

// SetPerPage changes the page size without returning to page 1 unless the
// current page no longer exists.
func (p *Pager) SetPerPage(perPage int) {
	if perPage <= 0 {
		return
	}
	p.state.PerPage = perPage
	p.state.Page = ClampPage(p.state.Page, TotalPages(p.filtered, perPage))
}

// Observe records the outcome of a derivation so later page moves clamp
// against it.
func Observe[T any](p *Pager, r Result[T]) {
	p.filtered = r.FilteredCount
	p.state.Page = r.Page
}
