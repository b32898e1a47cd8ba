package main

import (
	"github.com/nfrund/genewar/cmd/genewar-cli/cmd"
)

func main() {
	cmd.Execute()
}
