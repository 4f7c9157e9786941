package util

// Window turns 1-based page/size query values into an offset and limit for
// the search backend. Sizes outside 1..100 fall back to 20 teachers a page.
func Window(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return (page - 1) * size, size
}
