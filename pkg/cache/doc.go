// Package cache stores rendered figures keyed by the content that produced
// them.
//
// Rendering a neighbor diagram is the slowest step of a site build, and most
// diagrams do not change between dictionary releases. The render cache maps
// a hash of the DOT text plus render options to the resulting SVG so that an
// unchanged diagram is never rendered twice.
//
// # Backends
//
//   - [FileCache]: JSON entry files sharded by key hash under a directory.
//   - [RedisCache]: a shared cache for builds running on several hosts.
//   - [NullCache]: caching disabled.
//
// # Keys
//
// Keys are built by a [Keyer]. [NewScopedKeyer] prefixes every key, which
// keeps several sites apart in one Redis database.
package cache
