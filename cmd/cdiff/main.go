// Package main provides the cdiff CLI: a thin driver over the cdiff
// library's diff/apply/invert/compress/decompress operations, for manually
// exercising the codec against files on disk. Out of scope for the
// library's correctness guarantees; kept minimal.
package main

import (
	"flag"
	"fmt"
	"os"

	"cdiff"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "diff":
		err = runDiff(args[1:])
	case "apply", "patch":
		err = runApply(args[1:])
	case "invert":
		err = runInvert(args[1:])
	case "compress":
		err = runCompress(args[1:])
	case "decompress":
		err = runDecompress(args[1:])
	default:
		fmt.Fprintln(os.Stderr, "ERROR: unknown subcommand", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s diff [-compress] [-optimal] [-validate] <old> <new>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s apply [-strict] <old> <patch>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s invert <patch>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s compress <patch>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s decompress <patch>\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "\nAll forms read from files and write the result to stdout.")
}

func runDiff(args []string) error {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	compress := fs.Bool("compress", false, "run the result through the secondary compressor")
	optimal := fs.Bool("optimal", false, "with -compress, keep whichever form serializes shorter")
	strict := fs.Bool("validate", false, "round-trip validate the patch before returning it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("diff takes exactly two file arguments")
	}
	oldText, err := readFile(fs.Arg(0))
	if err != nil {
		return err
	}
	newText, err := readFile(fs.Arg(1))
	if err != nil {
		return err
	}
	opts := cdiff.Options{Compress: *compress, Optimal: *optimal}
	if *strict {
		opts.ValidationLevel = "apply"
	}
	patch, err := cdiff.CreatePatch(oldText, newText, opts)
	if err != nil {
		return err
	}
	return writeLines(os.Stdout, patch)
}

func runApply(args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	strict := fs.Bool("strict", false, "fail on anchor mismatch instead of warning and dropping")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("apply takes exactly two file arguments: <old> <patch>")
	}
	oldText, err := readFile(fs.Arg(0))
	if err != nil {
		return err
	}
	patch, err := readPatch(fs.Arg(1))
	if err != nil {
		return err
	}
	if cdiff.IsCompressed(patch) {
		patch, err = cdiff.Decompress(patch)
		if err != nil {
			return err
		}
	}
	result, err := cdiff.ApplyPatch(oldText, patch, cdiff.ApplyOptions{StrictMode: *strict})
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, result)
	return err
}

func runInvert(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("invert takes exactly one file argument")
	}
	patch, err := readPatch(args[0])
	if err != nil {
		return err
	}
	inv, err := cdiff.InvertPatch(patch)
	if err != nil {
		return err
	}
	return writeLines(os.Stdout, inv)
}

func runCompress(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("compress takes exactly one file argument")
	}
	patch, err := readPatch(args[0])
	if err != nil {
		return err
	}
	out, err := cdiff.Compress(patch, cdiff.CompressOptions{})
	if err != nil {
		return err
	}
	return writeLines(os.Stdout, out)
}

func runDecompress(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("decompress takes exactly one file argument")
	}
	patch, err := readPatch(args[0])
	if err != nil {
		return err
	}
	out, err := cdiff.Decompress(patch)
	if err != nil {
		return err
	}
	return writeLines(os.Stdout, out)
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readPatch(path string) (cdiff.Patch, error) {
	text, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return cdiff.Patch(splitLines(text)), nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, trimCR(s[start:i]))
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, trimCR(s[start:]))
	}
	return lines
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}

func writeLines(w *os.File, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
