package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"chasm/pkg/asm"
	"chasm/pkg/rom"
)

var (
	outputPath string
	dumpTokens bool
	dumpAST    bool
)

var rootCmd = &cobra.Command{
	Use:   "chasm sourceFile",
	Short: "chasm is a structured assembler for the CHIP-8 virtual machine",
	Long: `chasm compiles a structured assembly dialect (labels, procedures,
sprites, compile-time constants) into a CHIP-8 ROM image loaded at 0x200.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "out.c8c", "output ROM file")
	rootCmd.Flags().BoolVar(&dumpTokens, "dump-tokens", false, "print the token stream and exit")
	rootCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "pretty-print the parsed tree and exit")
}

func run(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file %s not found", path)
		}
		return fmt.Errorf("could not read file %s: %w", path, err)
	}
	src := string(data)

	if dumpTokens || dumpAST {
		return dump(src)
	}

	words, err := asm.Assemble(src)
	if err != nil {
		return err
	}

	if err := rom.WriteFile(outputPath, words); err != nil {
		return fmt.Errorf("could not write %s: %w", outputPath, err)
	}
	fmt.Printf("wrote %s (%d words)\n", outputPath, len(words))
	return nil
}

// dump runs only the front half of the pipeline and prints its artifacts.
func dump(src string) error {
	tokens, err := asm.Lex(src)
	if err != nil {
		return err
	}
	if dumpTokens {
		for _, tok := range tokens {
			fmt.Println(tok)
		}
	}

	if dumpAST {
		tree, err := asm.Parse(tokens)
		if err != nil {
			return err
		}
		for _, stmt := range tree.Statements {
			pp.Println(stmt)
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
