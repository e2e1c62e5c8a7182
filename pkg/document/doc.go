// Package document parses the lightweight markup returned by generators.
//
// A blob is split into sections on a marker token found at the start of a
// line (### by default). The first line of a section is its title; the
// remaining non-blank lines are classified by prefix:
//
//	- text     bullet
//	! text     alert callout
//	3. text    ordered step
//	text       paragraph
//
// Parsing is pure: the same blob and marker always yield the same Document.
package document
