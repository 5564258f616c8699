// Package asset handles video uploads: allow-list validation by declared
// type and sniffed magic bytes, size-policy enforcement, and metadata
// extraction. Loaded assets live entirely in memory; nothing is persisted
// beyond the session that owns them.
package asset
