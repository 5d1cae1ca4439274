package models

// OutdatedPkg is one record from `uv pip list --outdated --format=json`.
// It is joined against the lockfile graph by canonical name; a package
// absent from this report is simply not outdated.
type OutdatedPkg struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	LatestVersion string `json:"latest_version"`
}

// DistMetadata is the parsed METADATA of one installed distribution from a
// site-packages directory. The provider may be entirely unavailable; callers
// must treat a missing entry as "no metadata" rather than an error.
type DistMetadata struct {
	Name          string // canonical name
	Version       string
	Summary       string
	RequiresDist  []string // raw requirement strings
	ProvidesExtra []string
}
