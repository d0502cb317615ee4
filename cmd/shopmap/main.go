// Command shopmap maps the shelves of a shop floor.
package main

import "github.com/mesh-intelligence/shopmap/internal/cli"

func main() {
	cli.Execute()
}
