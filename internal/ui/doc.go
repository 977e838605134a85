// Package ui renders the terminal output of the agama-net CLI.
//
// Components follow a "render once and print" pattern: they are built from
// plain values, styled with Lipgloss and written to an io.Writer. Nothing here
// reads from the service; commands fetch data and hand it over.
//
//   - Header: command banner with the target service and parameters
//   - Table: column-aligned listing of devices, connections or patterns
//   - Progress: step list for multi-write operations such as "load"
//   - Result: success, failure or warning box
//   - Diagnostic: verbatim service response body
//   - Confirm: typed confirmation before a destructive network change
//
// Styled output is only used when stdout is a terminal. Printer falls back
// to plain text otherwise, so "agama-net connections | grep eth0" works.
package ui
