package collection

// TotalPages returns ceil(count/perPage), or 0 when count is 0.
func TotalPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// ClampPage keeps page within [1, total]. With no pages it returns 1.
func ClampPage(page, total int) int {
	if page < 1 || total < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Range returns the half-open slice bounds of page within count items.
func Range(page, perPage, count int) (start, end int) {
	if count <= 0 || perPage <= 0 {
		return 0, 0
	}
	start = (page - 1) * perPage
	if start > count {
		start = count
	}
	end = min(start+perPage, count)
	return start, end
}

// Ellipsis marks a gap in a PageWindow.
const Ellipsis = 0

// PageWindow lists the page numbers a pagination strip shows around current.
// The first and last pages are always present, delta pages are shown on each
// side of current, and gaps are marked with Ellipsis.
func PageWindow(current, total, delta int) []int {
	if total < 1 {
		return nil
	}
	current = ClampPage(current, total)

	window := []int{1}
	if current-delta > 2 {
		window = append(window, Ellipsis)
	}
	for i := max(2, current-delta); i <= min(total-1, current+delta); i++ {
		window = append(window, i)
	}
	if current+delta < total-1 {
		window = append(window, Ellipsis)
	}
	if total > 1 {
		window = append(window, total)
	}
	return window
}
