// Package scheduleview serves one day's schedule as a nested read model:
// rings, each with its classes, each with the farm's entries in order of go.
// It reads the entry mirror only and never talks to the provider.
package scheduleview
