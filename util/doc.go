// Package util renders sizes, percentages and uptimes for the health
// endpoints.
package util
