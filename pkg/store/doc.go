// Package store keeps a record of every site build.
//
// A [Run] lists, per dictionary, how many pages and figures were written and
// which units failed. Runs are saved by a [Store]:
//
//   - [FileStore]: one JSON file per run, for local builds.
//   - [MongoStore]: a "runs" collection, for build hosts sharing history.
//   - [NullStore]: history disabled.
//
// Get returns (nil, nil) for an unknown id.
package store
