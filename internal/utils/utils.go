// Package utils provides a collection of reusable utility functions and helpers
// for use across the project. This package includes generic functional programming
// constructs (Map, Filter, Reduce, Count), slice helpers and small numeric helpers.
//
// Functional Programming Utilities:
//   - Map, Filter, Reduce, Count: Generic implementations for slice processing.
//
// Slices:
//   - Contains, Uniq
//
// Numbers:
//   - Percent: rounded percentage that is 0 when the whole is 0.
//   - Ratio: part/whole as a float that is 0 when the whole is 0.
//
// Strings:
//   - SplitFields: splits a comma separated list, dropping empty entries.
//
// This package is intended to centralize commonly used logic and promote code reuse
// throughout the project.
package utils

import (
	"math"
	"strings"
)

/* some Functional Programming in Go */
// map
type mapFunc[E any, R any] func(E) R

// Map function definition of a functional programming "function"
func Map[S ~[]E, E any, R any](s S, f mapFunc[E, R]) []R {
	result := make([]R, len(s))
	for i, e := range s {
		result[i] = f(e)
	}

	return result
}

// filter
type keepFunc[E any] func(E) bool

// Filter function definition of a functional programming "function"
func Filter[S ~[]E, E any](s S, f keepFunc[E]) S {
	result := S{}
	for _, v := range s {
		if f(v) {
			result = append(result, v)
		}
	}

	return result
}

// reduce
type reduceFunc[E any, A any] func(acc A, next E) A

// Reduce function definition of a functional programming "function"
func Reduce[E any, A any](s []E, init A, f reduceFunc[E, A]) A {
	cur := init
	for _, v := range s {
		cur = f(cur, v)
	}

	return cur
}

// Count returns how many elements satisfy f
func Count[S ~[]E, E any](s S, f keepFunc[E]) int {
	n := 0
	for _, v := range s {
		if f(v) {
			n++
		}
	}

	return n
}

// Contains reports whether val is present in slice
func Contains[E comparable](slice []E, val E) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}

	return false
}

// Uniq drops zero values and duplicates, keeping first occurrences in order
func Uniq[E comparable](in []E) []E {
	var zero E
	seen := make(map[E]struct{}, len(in))
	out := make([]E, 0, len(in))
	for _, v := range in {
		if v == zero {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// Ratio returns part/whole, or 0 when whole is 0
func Ratio(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}

	return part / whole
}

// Percent returns round(part/whole*100), or 0 when whole is 0
func Percent(part, whole int) int {
	return int(math.Round(Ratio(float64(part), float64(whole)) * 100))
}

// SplitFields splits a comma separated value, trimming and dropping empty entries
func SplitFields(value string) []string {
	out := []string{}
	for _, f := range strings.Split(value, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}

	return out
}
