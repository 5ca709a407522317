// Package gemini implements the direct-provider variant of the generation
// contract using Google's Gemini API. The model is constrained to a JSON
// object schema with required subject/body string fields.
package gemini
