package stringslice

import "strings"

// Index returns the index of item in a given array
func Index(arr []string, item string) int {
	for i := 0; i < len(arr); i++ {
		if item == arr[i] {
			return i
		}
	}
	return -1
}

// Contains returns true if the given array contains given item
func Contains(arr []string, item string) bool {
	return Index(arr, item) >= 0
}

// HasSuffix returns true if s ends with any of the given suffixes
func HasSuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}
