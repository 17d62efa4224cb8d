// Package llm provides the external text-generation fallback classifier.
package llm
