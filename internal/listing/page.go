package listing

// DirectoryPageSize is the page size of the card grids.
const DirectoryPageSize = 9

type PageView[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	Total      int `json:"total"`
}

// TotalPages is ceil(count/size); a non-positive size counts as one page.
func TotalPages(count, size int) int {
	if count <= 0 {
		return 0
	}
	if size <= 0 {
		return 1
	}

	return (count + size - 1) / size
}

// Paginate cuts page out of items. The page is clamped into
// [1, max(1, TotalPages)].
func Paginate[T any](items []T, page, size int) PageView[T] {
	if size <= 0 {
		size = DirectoryPageSize
	}

	total := TotalPages(len(items), size)
	page = clampPage(page, total)

	start := (page - 1) * size
	end := min(start+size, len(items))
	if start > end {
		start = end
	}

	window := make([]T, end-start)
	copy(window, items[start:end])

	return PageView[T]{
		Items:      window,
		Page:       page,
		PageSize:   size,
		TotalPages: total,
		Total:      len(items),
	}
}

func clampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > max(1, total) {
		return max(1, total)
	}

	return page
}
