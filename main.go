/*
Copyright © 2026 Daniel K. White (dkw-au) <daniel@dkw.dev>
*/
package main

import (
	"github.com/dkw-au/mra/cmd"
)

func main() {
	cmd.Execute()
}
