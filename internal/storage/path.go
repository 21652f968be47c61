package storage

import (
	"strconv"
)

// VariantPath derives the storage path of a resized variant from the
// canonical content path. A size of 0 is the original.
//
// Example:
//
//	path: "/data/1a2b3c", size: 250
//	result: "/data/1a2b3c_250"
func VariantPath(path string, size int) string {
	if size == 0 {
		return path
	}
	return path + "_" + strconv.Itoa(size)
}
