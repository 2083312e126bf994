package lkerr

import "fmt"

// APIVersion is the current Locksmith API version.
//
// Format: the first 16 bits are the major version; the second 16 bits are
// the minor version. Changes in the major version break the API; minor
// version changes may add to the API, but they never break it.
const APIVersion uint32 = 0x00010000

// Version returns the current Locksmith API version.
func Version() uint32 {
	return APIVersion
}

// VersionString converts an API version to a human-readable "major.minor"
// string.
func VersionString(ver uint32) string {
	return fmt.Sprintf("%d.%d", (ver>>16)&0xffff, ver&0xffff)
}
