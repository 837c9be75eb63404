// Package rhinodoc turns RhinoCommon XML documentation comments into a
// namespace-sharded API corpus and answers name-based queries over it.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., etree/, sqlite/, minio/, mcp/).
package rhinodoc
