// Package domain contains the core business entities and value objects.
// It has no dependencies on other internal packages.
package domain
