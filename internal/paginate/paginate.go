// Package paginate computes fixed-size page windows over an ordered result set.
package paginate

import (
	"errors"
	"strconv"
)

const PerPage = 10

// Page describes one window of an ordered sequence of Count items.
type Page struct {
	Number      int  `json:"number"`
	NumPages    int  `json:"num_pages"`
	Count       int  `json:"count"`
	PerPage     int  `json:"per_page"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// New resolves the raw page parameter against count items using PerPage.
func New(count int, raw string) Page {
	return NewSized(count, PerPage, raw)
}

// NewSized resolves raw into a page number. A missing or non-numeric value
// selects the first page; a number below 1 or past the end, including one
// too large for an int, selects the last page. An empty sequence still has
// one (empty) page.
func NewSized(count, perPage int, raw string) Page {
	if perPage < 1 {
		perPage = PerPage
	}
	if count < 0 {
		count = 0
	}

	numPages := (count + perPage - 1) / perPage
	if numPages == 0 {
		numPages = 1
	}

	number, err := strconv.Atoi(raw)
	switch {
	case errors.Is(err, strconv.ErrRange):
		number = numPages
	case err != nil:
		number = 1
	case number < 1 || number > numPages:
		number = numPages
	}

	return Page{
		Number:      number,
		NumPages:    numPages,
		Count:       count,
		PerPage:     perPage,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

// Bounds returns the half-open [start, end) index range of the page.
func (p Page) Bounds() (int, int) {
	start := p.Offset()
	end := start + p.PerPage
	if end > p.Count {
		end = p.Count
	}
	if start > end {
		start = end
	}
	return start, end
}

// Slice cuts the page out of an already ordered, fully loaded sequence.
func Slice[T any](items []T, p Page) []T {
	start, end := p.Bounds()
	if end > len(items) {
		end = len(items)
	}
	if start > end {
		return nil
	}
	return items[start:end]
}
