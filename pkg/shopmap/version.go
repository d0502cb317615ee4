// Package shopmap holds build metadata for the shopmap module.
package shopmap

// Version is the release version of the shopmap CLI.
const Version = "0.1.0"
