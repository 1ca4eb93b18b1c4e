// Package registry holds the durable named entities (farm, horse, rider,
// ring, class) and the resolver that maps remote names to local identities.
//
// The provider's identifiers for these entities are scoped to a single show:
// the same horse gets a different remote id at the next show. The only stable
// key is the exact name within a farm, so resolution is name-based and remote
// ids are treated as transient.
//
// Concurrent first sightings of the same name are safe: creation goes through
// a uniqueness constraint with insert-ignore-then-reselect semantics, which
// works across processes where an in-memory lock would not.
package registry
