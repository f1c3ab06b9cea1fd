// Command recordkit checks, normalizes and describes stack documents.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "recordkit:", err)
		os.Exit(1)
	}
}
