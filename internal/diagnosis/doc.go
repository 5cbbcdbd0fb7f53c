// Package diagnosis turns a webhook reply into a DiagnosisResponse and a
// presentation-ready View.
//
//   - interpret.go: Interpret, the tolerant body parser. It never fails: a body
//     that is not a JSON object, and does not contain one between its first
//     '{' and last '}', becomes an unstructured response carrying the raw text.
//   - render.go: Render, the fixed section layout for both response kinds.
//
// Both functions are pure: no I/O, no shared state, same output for the same
// input.
package diagnosis
