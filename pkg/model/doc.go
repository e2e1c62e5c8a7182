// Package model defines the declarative step schema shared by creator wizards
// and create popups, together with the Values map that holds collected input.
// Schemas describe an ordered list of steps; each step lists fields whose Kind
// selects the input control (text, textarea, number, single or multi
// chip-list). Multi-select fields are insertion-ordered sets: Toggle inserts a
// value when absent, removes it when present, and never stores duplicates.
// Steps can carry a When condition so a wizard branches past questions that do
// not apply to earlier answers.
package model
