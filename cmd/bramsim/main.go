// Package main provides the bramsim command that runs randomized
// verification traffic against the dual-port block RAM model.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bramsim",
	Short: "bramsim simulates a 128x512-bit dual-port byte-masked block RAM.",
	Long: `bramsim simulates a dual-port block RAM with 128 words of 512 bits. ` +
		`Writes apply a 64-bit byte-enable mask and reads return the addressed ` +
		`word one cycle later through an output register. The simulator drives ` +
		`the RAM with randomized traffic and checks every read result.`,
}

func main() {
	// A .env file can override the flag defaults.
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Cannot load .env file: %s\n", err)
	}

	err = rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
