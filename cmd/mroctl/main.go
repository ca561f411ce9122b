// Точка входа mroctl — CLI оператора KMM MRO.
package main

import (
	"os"

	"github.com/bambang-ap/kmm-mro-shared/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
