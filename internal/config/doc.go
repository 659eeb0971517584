// Package config loads and validates the wxrelay YAML configuration.
//
// config.go provides Load(path) with defaults for absent optional fields
// and structural validation of the post, source and metrics sections.
// Durations are written as Go duration strings ("60s", "5m").
//
// watch.go provides Watch(ctx, path, onChange) for hot-reload via fsnotify.
// A reload that fails to parse or validate keeps the previous config active.
//
// Note that an invalid post.target_unit is deliberately not rejected here:
// per the delivery contract it disables the posting pipeline at construction
// time while the rest of the process keeps running.
package config
