package view

// pageWindow is how many page numbers are shown on each side of the current one.
const pageWindow = 2

// PageLink is one entry of the page number strip. Gap entries render as "…".
type PageLink struct {
	Number  int
	Current bool
	Gap     bool
}

type Paginator struct {
	Page  int
	Pages int
	Prev  int // 0 when there is no previous page
	Next  int // 0 when there is no next page
	Links []PageLink
}

// NewPaginator uses total as the page count, which is what the listing
// endpoint reports.
func NewPaginator(total, page int) Paginator {
	pages := max(total, 0)
	p := Paginator{Page: page, Pages: pages}
	if pages == 0 {
		return p
	}
	if page > 1 {
		p.Prev = min(page-1, pages)
	}
	if page < pages {
		p.Next = page + 1
	}

	// Center the strip on the last page when page runs past the end.
	cur := min(max(page, 1), pages)
	lo := max(1, cur-pageWindow)
	hi := min(pages, cur+pageWindow)

	if lo > 1 {
		p.Links = append(p.Links, PageLink{Number: 1})
		if lo > 2 {
			p.Links = append(p.Links, PageLink{Gap: true})
		}
	}
	for n := lo; n <= hi; n++ {
		p.Links = append(p.Links, PageLink{Number: n, Current: n == page})
	}
	if hi < pages {
		if hi < pages-1 {
			p.Links = append(p.Links, PageLink{Gap: true})
		}
		p.Links = append(p.Links, PageLink{Number: pages})
	}
	return p
}

// Visible reports whether the strip is worth rendering.
func (p Paginator) Visible() bool { return p.Pages > 1 }
