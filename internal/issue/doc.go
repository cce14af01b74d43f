// SPDX-License-Identifier: MPL-2.0

// Package issue turns resolver and configuration failures into messages a
// user can act on: a short ActionableError for the error chain and a
// longer Markdown page, rendered with glamour, for the common cases.
package issue
