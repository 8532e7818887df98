package main

import (
	"fmt"
	"os"
)

// @title Energy Advisor API
// @version 1.0
// @description Electricity saving recommendations from appliance usage.
// @BasePath /
func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
