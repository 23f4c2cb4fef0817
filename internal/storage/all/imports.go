// Package all wires the built-in storage backends into the storage factory.
//
// It exists for side effects only: a blank import runs each backend's init,
// which registers its factory with the storage package. Today that is just
// "sqlite" (songdb/internal/storage/sqlite).
//
//	import _ "songdb/internal/storage/all"
//
//	repo, err := storage.New(ctx, storage.Config{Kind: "sqlite", DSN: dest, Table: songs.Table})
package all

import (
	_ "songdb/internal/storage/sqlite"
)
