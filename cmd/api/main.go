// cmd/api/main.go
package main

import (
	"fmt"
	"os"

	"github.com/your-org/cafe-backend/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
