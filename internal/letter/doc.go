// Package letter holds the static bilingual objection letter templates and
// the placeholder substitution applied to both AI-generated and fallback
// letter bodies. Templates are read-only compile-time data; lookup is pure.
package letter
