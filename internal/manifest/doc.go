// Package manifest handles parsing and validation of template manifests.
// A manifest (.bootstrap.yaml at the root of a template tree) declares which
// files are templates, the ordered substitution rules, the structured config
// to patch, scaffold-only files to discard, post-substitution renames and the
// finalization hooks. Trees without a manifest fall back to the embedded
// go-boilerplate layout.
package manifest
