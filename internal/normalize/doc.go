// Package normalize adapts every known upstream analysis payload shape
// into the canonical domain.Analysis record.
//
// The analysis backend changed its response shape several times over the
// life of the project: field names, nesting, and units (fractions vs.
// percentages, arrays vs. maps) all drifted between versions. Each
// canonical field is therefore resolved through an ordered fallback
// chain, evaluated top to bottom, first present-and-valid value wins.
// The chains live in one declarative table so supporting a new upstream
// version means adding a row, not another copy of the logic.
//
// Normalize is total: malformed input degrades to defaults, it never
// returns an error. It is also idempotent: feeding a canonical record's
// own JSON encoding back through Normalize yields an identical record.
package normalize
