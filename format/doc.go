// Package format holds the format and swizzle helpers shared by the view
// cache and the blit selector.
//
// Texture formats are gputypes.TextureFormat values. The package adds what
// the state tracker needs on top of them: per-format channel and block
// layout, sRGB-to-linear and stencil-only narrowing, and the swizzle
// algebra that makes storage formats read back like the base format the
// application asked for.
package format
