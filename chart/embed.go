// Package chart embeds the SOAD platform Helm chart so the toolkit can render
// the platform without any chart fetched from disk or a registry. Keeping the
// chart in a top-level directory makes it easy to inspect and update without
// diving into Go packages.
package chart

import "embed"

// FS holds the embedded platform chart. Files are accessed via the
// "soad/" prefix.
//
//go:embed all:soad
var FS embed.FS
