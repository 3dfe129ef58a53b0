//go:build sqlite_vec && cgo

package store

import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

// Building with -tags sqlite_vec registers the sqlite-vec extension
// alongside mattn/go-sqlite3. Registration is all this does: no vector
// table is created and no query uses the extension, so nearest and
// k-nearest queries are always served by the k-d tree of
// internal/kdtree. Off by default.
func init() {
	vec.Auto()
}
