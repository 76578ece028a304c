package form

// Cache memoizes encoded parameter sets for the duration of one logical API
// call. The executor encodes the same parameters twice per request (once for
// the wire, once for logging); keying the result by a per-call token keeps
// the two uses identical and avoids paying for the encode walk twice.
//
// A Cache is owned by a single call and discarded with it. It is not safe
// for concurrent use and is never shared across calls.
type Cache struct {
	encode  func(any) (string, error)
	entries map[string]string
}

// NewCache returns an empty call-scoped cache backed by Encode.
func NewCache() *Cache {
	return &Cache{
		encode:  Encode,
		entries: make(map[string]string),
	}
}

// Encode returns the encoding for the parameter set identified by token,
// computing it on first use and replaying the stored result afterwards.
func (c *Cache) Encode(token string, params any) (string, error) {
	if s, ok := c.entries[token]; ok {
		return s, nil
	}
	s, err := c.encode(params)
	if err != nil {
		return "", err
	}
	c.entries[token] = s
	return s, nil
}
