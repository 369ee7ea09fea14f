// Package projects exposes the read-only query layer over project content
// files: listing, slug lookup, featured and tag filtering, plus an optional
// in-memory snapshot kept fresh by a filesystem watcher.
package projects
