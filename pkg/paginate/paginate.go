// Package paginate slices ordered sequences into page views.
package paginate

// PageSizes are the page sizes offered by the web UI.
var PageSizes = []int{50, 100, 200, 500}

// Page is one page of an ordered sequence plus navigation metadata.
// Start and End are 1-based inclusive positions of the first and last item
// on the page; both are 0 when the sequence is empty.
type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	Size       int `json:"size"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
	Start      int `json:"start"`
	End        int `json:"end"`
}

// Paginate returns page number page of items. There is always at least one
// page, and page is clamped to [1, TotalPages]. A pageSize of zero or less
// puts every item on a single page. Items share the input's backing array.
func Paginate[T any](items []T, pageSize, page int) Page[T] {
	total := len(items)
	if pageSize <= 0 {
		pageSize = max(total, 1)
	}

	pages := (total + pageSize - 1) / pageSize
	pages = max(pages, 1)
	page = min(max(page, 1), pages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	p := Page[T]{
		Items:      items[start:end],
		Number:     page,
		Size:       pageSize,
		TotalPages: pages,
		TotalItems: total,
	}
	if end > start {
		p.Start = start + 1
		p.End = end
	}
	return p
}

func (p Page[T]) HasPrev() bool { return p.Number > 1 }
func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

// First, Prev, Next and Last return target page numbers, staying in range.
func (p Page[T]) First() int { return 1 }
func (p Page[T]) Prev() int  { return max(p.Number-1, 1) }
func (p Page[T]) Next() int  { return min(p.Number+1, p.TotalPages) }
func (p Page[T]) Last() int  { return p.TotalPages }

// Window returns up to n page numbers centred on the current page.
func (p Page[T]) Window(n int) []int {
	if n <= 0 {
		return nil
	}
	n = min(n, p.TotalPages)
	first := max(p.Number-n/2, 1)
	if first+n-1 > p.TotalPages {
		first = p.TotalPages - n + 1
	}
	out := make([]int, n)
	for i := range out {
		out[i] = first + i
	}
	return out
}

// ValidSize reports whether size is one of PageSizes.
func ValidSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}
