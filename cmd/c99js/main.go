// Command c99js is the driver of spec.md §6.1: the out-of-scope
// "command-line driver, argument parsing, file I/O, include-path
// discovery" collaborator the rest of this module leaves unspecified.
//
// The teacher's own cmd/esbuild is built on a hand-rolled flag parser
// (esbuild's pkg/cli/cli_impl.go) because esbuild ships as a single static
// binary with its own argument conventions (`--bundle`, `--define:X=Y`)
// that don't map cleanly onto any off-the-shelf flag library. c99js's
// surface is a conventional short/long Unix flag set, so this driver is
// grounded instead on the rest of the corpus's CLI entry points, which
// build their command trees on github.com/spf13/cobra; .c99jsenv
// environment loading follows the same corpus's use of
// github.com/joho/godotenv for local dev-environment configuration.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/c99js/c99js/internal/compile"
	"github.com/c99js/c99js/internal/config"
	"github.com/c99js/c99js/internal/exitcode"
	"github.com/c99js/c99js/internal/fs"
	"github.com/c99js/c99js/internal/logger"
)

func main() {
	exitcode.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) error {
	// .c99jsenv lets a project pin include paths or macro defines without
	// repeating them on every invocation; a missing file is not an error.
	_ = godotenv.Load(".c99jsenv")

	var (
		outputPath  string
		includeDirs []string
		defines     []string
		preprocess  bool
		dumpAST     bool
	)

	cmd := &cobra.Command{
		Use:           "c99js <input.c>",
		Short:         "Transpile a C99 translation unit to JavaScript",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compileFile(args[0], outputPath, includeDirs, defines, preprocess, dumpAST, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: standard output)")
	cmd.Flags().StringArrayVarP(&includeDirs, "include", "I", nil, "Add include search path (may repeat)")
	cmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "Define preprocessor macro NAME[=VALUE]")
	cmd.Flags().BoolVarP(&preprocess, "preprocess-only", "E", false, "Preprocess only; write preprocessed text to output")
	cmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "(reserved, no-op in core)")

	if err := cmd.Execute(); err != nil {
		return exitcode.Set(err, 1)
	}
	return nil
}

func compileFile(inputPath, outputPath string, includeDirs, defineFlags []string, preprocessOnly, dumpAST bool, stdout, stderr io.Writer) error {
	src, ok := fs.NewReader().ReadFile(inputPath)
	if !ok {
		return exitcode.Set(fmt.Errorf("cannot read input file %q", inputPath), 1)
	}

	opts := config.Options{
		IncludePaths:   includeDirs,
		Defines:        parseDefines(defineFlags),
		PreprocessOnly: preprocessOnly,
		DumpAST:        dumpAST,
	}
	ctx := config.New(opts)

	result := compile.Compile(ctx, fs.NewReader(), src, inputPath)

	useColor := false
	if f, ok := stderr.(*os.File); ok {
		useColor = logger.IsTerminal(f)
	}
	for _, msg := range result.Diagnostics {
		fmt.Fprintln(stderr, logger.MsgString(msg, useColor))
	}
	if hasError(result.Diagnostics) {
		return exitcode.Set(fmt.Errorf("compilation failed"), 1)
	}

	output := result.JS
	if preprocessOnly {
		output = result.Preprocessed
	}

	if outputPath == "" {
		_, err := fmt.Fprint(stdout, output)
		return err
	}
	return os.WriteFile(outputPath, []byte(output), 0o644)
}

func parseDefines(flags []string) []config.Macro {
	macros := make([]config.Macro, 0, len(flags))
	for _, f := range flags {
		name, value, _ := strings.Cut(f, "=")
		macros = append(macros, config.Macro{Name: name, Value: value})
	}
	return macros
}

func hasError(msgs []logger.Msg) bool {
	for _, m := range msgs {
		if m.Kind == logger.Error {
			return true
		}
	}
	return false
}
