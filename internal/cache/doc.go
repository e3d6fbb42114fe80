// Package cache provides the LRU store behind the content manager's
// loaded assets.
//
//	c := cache.New[string, any](64)
//	c.Set("fonts/title", font)
//	v, ok := c.Get("fonts/title")
//
// A limit of zero disables eviction. Evicted and deleted values are
// handed to the OnEvict callback so owners can release native handles.
package cache
