// Package validator validates request inputs and renders per-field messages.
package validator
