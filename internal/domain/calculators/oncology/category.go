// Package oncology holds the cancer staging and risk calculators.
package oncology

// Category groups the calculators in this package.
const Category = "oncology"

func yes(v string) bool { return v == "yes" }
