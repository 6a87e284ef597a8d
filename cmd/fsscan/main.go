package main

import (
	"fmt"
	"github.com/agamayoga/fsscan/cmd/fsscan/commands"
	"os"
)

func main() {

	err := commands.Execute()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
