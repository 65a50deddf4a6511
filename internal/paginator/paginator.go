// Package paginator slices an ordered collection into numbered pages.
//
// Page numbers come from user input, so Number never fails: anything that is
// not an integer selects the first page and out-of-range numbers are clamped
// to the nearest existing page.
package paginator

import (
	"strconv"
	"strings"
)

// Paginator describes a collection of Count items split into pages of PerPage
type Paginator struct {
	Count   int64
	PerPage int
}

// New returns a Paginator, treating a non-positive page size as one item per page
func New(count int64, perPage int) Paginator {
	if perPage < 1 {
		perPage = 1
	}
	if count < 0 {
		count = 0
	}
	return Paginator{Count: count, PerPage: perPage}
}

// NumPages is the number of pages. An empty collection still has one (empty) page.
func (p Paginator) NumPages() int {
	if p.Count == 0 {
		return 1
	}
	per := int64(p.PerPage)
	return int((p.Count + per - 1) / per)
}

// Number resolves a raw page query parameter to a valid page number
func (p Paginator) Number(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	if last := p.NumPages(); n > last {
		return last
	}
	return n
}

// Window returns the offset and limit of page number n, which must be valid
func (p Paginator) Window(n int) (offset, limit int) {
	return (n - 1) * p.PerPage, p.PerPage
}

// Page is one slice of the collection
type Page[T any] struct {
	Items     []T
	Number    int
	Paginator Paginator
}

// Get resolves raw to a page number and loads its items with fetch
func Get[T any](p Paginator, raw string, fetch func(offset, limit int) ([]T, error)) (*Page[T], error) {
	number := p.Number(raw)
	offset, limit := p.Window(number)
	items, err := fetch(offset, limit)
	if err != nil {
		return nil, err
	}
	return &Page[T]{Items: items, Number: number, Paginator: p}, nil
}

func (pg *Page[T]) Len() int { return len(pg.Items) }

func (pg *Page[T]) NumPages() int { return pg.Paginator.NumPages() }

func (pg *Page[T]) HasNext() bool { return pg.Number < pg.NumPages() }

func (pg *Page[T]) HasPrevious() bool { return pg.Number > 1 }

func (pg *Page[T]) HasOtherPages() bool { return pg.HasNext() || pg.HasPrevious() }

func (pg *Page[T]) NextNumber() int { return pg.Number + 1 }

func (pg *Page[T]) PreviousNumber() int { return pg.Number - 1 }

// StartIndex is the 1-based index of the first item on the page, 0 for an empty collection
func (pg *Page[T]) StartIndex() int {
	if pg.Paginator.Count == 0 {
		return 0
	}
	return (pg.Number-1)*pg.Paginator.PerPage + 1
}

// EndIndex is the 1-based index of the last item on the page
func (pg *Page[T]) EndIndex() int {
	if pg.Number == pg.NumPages() {
		return int(pg.Paginator.Count)
	}
	return pg.Number * pg.Paginator.PerPage
}

// PageRange lists every page number, for rendering page links
func (pg *Page[T]) PageRange() []int {
	pages := make([]int, pg.NumPages())
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
