// Package domain contains the core types of the objection letter service:
// the user-authored objection request, the generated letter, and the
// enumerations shared across the generation pipeline. Domain types carry
// their own validation and have no dependencies on transport or providers.
package domain
