// Package model holds the step descriptors and the plan option contract
// shared between the blueprint package and its observers.
package model
