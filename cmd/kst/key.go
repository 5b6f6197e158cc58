package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/franz/karaoke-tracker/internal/keys"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Key arithmetic helpers",
}

var keyAdjustCmd = &cobra.Command{
	Use:   "adjust FROM TO",
	Short: "Steps needed to go from one key to another",
	Args:  cobra.ExactArgs(2),
	RunE:  runKeyAdjust,
}

var keyTransposeCmd = &cobra.Command{
	Use:   "transpose KEY STEPS",
	Short: "Key reached by moving a number of steps",
	Args:  cobra.ExactArgs(2),
	RunE:  runKeyTranspose,
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyAdjustCmd, keyTransposeCmd)
}

func runKeyAdjust(cmd *cobra.Command, args []string) error {
	from, ok := keys.ParseKey(args[0])
	if !ok {
		return fmt.Errorf("unrecognized key %q", args[0])
	}
	to, ok := keys.ParseKey(args[1])
	if !ok {
		return fmt.Errorf("unrecognized key %q", args[1])
	}

	fmt.Printf("%s -> %s: %+d steps\n", from.Display(), to.Display(), keys.Adjustment(from, to))
	return nil
}

func runKeyTranspose(cmd *cobra.Command, args []string) error {
	key, ok := keys.ParseKey(args[0])
	if !ok {
		return fmt.Errorf("unrecognized key %q", args[0])
	}
	steps, err := strconv.Atoi(args[1])
	if err != nil {
		// Allow phrases like "up 2" here too
		parsed, ok := keys.ParseAdjustment(args[1])
		if !ok {
			return fmt.Errorf("unrecognized step count %q", args[1])
		}
		steps = parsed
	}

	fmt.Printf("%s %+d steps = %s\n", key.Display(), steps, keys.Transpose(key, steps).Display())
	return nil
}
