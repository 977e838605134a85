// Package software manages the software pattern selection of the installer
// service.
//
// Patterns are offered by the service and identified by name; the client only
// changes their selection. SelectPatterns rejects unknown names with
// ErrUnknownPattern before writing anything, and Apply commits the selection.
package software
