// Package cache provides a small generic LRU cache for GPU objects that are
// expensive to build and cheap to look up, such as render pipelines keyed by
// target format.
//
//	c := cache.New[gputypes.TextureFormat, hal.RenderPipeline](8, destroy)
//	p, err := c.GetOrCreate(format, build)
//
// Values pushed out by the capacity limit, Delete or Clear are passed to the
// eviction callback. The callback runs with the cache lock held and must not
// call back into the cache.
package cache
