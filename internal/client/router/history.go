package router

// History is a browser-style back/forward stack of visited URLs.
type History struct {
	entries []string
	pos     int
}

// Push records url as the current entry and drops the forward entries.
// Pushing the current entry again is a no-op.
func (h *History) Push(url string) {
	if len(h.entries) > 0 && h.entries[h.pos] == url {
		return
	}
	if len(h.entries) > 0 {
		h.entries = h.entries[:h.pos+1]
	}
	h.entries = append(h.entries, url)
	h.pos = len(h.entries) - 1
}

// Back moves to the previous entry.
func (h *History) Back() (string, bool) {
	if h.pos == 0 || len(h.entries) == 0 {
		return "", false
	}
	h.pos--
	return h.entries[h.pos], true
}

// Forward moves to the next entry.
func (h *History) Forward() (string, bool) {
	if h.pos+1 >= len(h.entries) {
		return "", false
	}
	h.pos++
	return h.entries[h.pos], true
}

// Current returns the current entry, or "" when empty.
func (h *History) Current() string {
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[h.pos]
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }
