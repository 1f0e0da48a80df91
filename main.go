package main

import (
	"os"

	"github.com/theapemachine/cpf-explainer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
