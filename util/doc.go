// Package util provides small helpers shared by the textstream packages:
// human-readable size parsing for buffer settings and zero-value coalescing.
package util
