package main

import (
	"os"

	"github.com/example/ibozctl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
