// Package scaffold turns a template tree into a new project. It powers the
// "bootstrap new" command: the tree is copied verbatim (symlinks included),
// template files are discovered, every line of every template is passed
// through an ordered table of literal find/replace rules and rewritten in
// place through a temp file, a JSON config is patched, scaffold-only files
// are discarded, identity-bearing paths are renamed and finally the
// external hooks (origin detach, build) are invoked.
//
// Every step is fail-fast and nothing is rolled back: a failed run leaves
// the target directory for the caller to remove before retrying.
package scaffold
