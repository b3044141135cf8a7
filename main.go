// tripgraph - multimodal trip graph traversal core.
//
// tripgraph validates trip requests against router defaults and exposes
// the traversal cost model through a CLI and an MCP inspection server.
package main

import (
	"fmt"
	"os"

	"github.com/Benny93/tripgraph/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
