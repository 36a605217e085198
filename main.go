package main

import (
	"os"

	"github.com/PolarWolf314/rssh/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
