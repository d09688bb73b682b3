package main

import (
	"fmt"
	"os"
)

func init() {
	rootCmd.AddCommand(flowCmd)
	rootCmd.AddCommand(quoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
