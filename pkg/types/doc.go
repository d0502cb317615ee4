// Package types defines the shop layout data model (Shelf, Slots, Color),
// the Layout and Shop interfaces, configuration, and the standard errors
// shared by the grid, exchange, and workspace packages.
package types
