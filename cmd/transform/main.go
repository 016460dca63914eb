package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/KrtNinja/kr-transformer/codec"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "convert":
		convertCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "transform CLI\n\nUsage:\n  transform convert -from json|yaml|msgpack -to json|yaml|msgpack [-i in] [-o out]\n\nReads a document, rebuilds it as plain data and re-emits it in the target format.")
}

func convertCmd(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	var from, to, in, out string
	fs.StringVar(&from, "from", "json", "input format: json, yaml or msgpack")
	fs.StringVar(&to, "to", "json", "output format: json, yaml or msgpack")
	fs.StringVar(&in, "i", "", "input file (default stdin)")
	fs.StringVar(&out, "o", "", "output file (default stdout)")
	_ = fs.Parse(args)

	src, err := codecFor(from)
	if err != nil {
		fatalf("%v", err)
	}
	dst, err := codecFor(to)
	if err != nil {
		fatalf("%v", err)
	}

	data, err := readInput(in)
	if err != nil {
		fatalf("read: %v", err)
	}
	var doc any
	if err := src.Unmarshal(data, &doc); err != nil {
		fatalf("parse %s: %v", from, err)
	}
	rendered, err := dst.Marshal(doc)
	if err != nil {
		fatalf("render %s: %v", to, err)
	}
	if err := writeOutput(out, rendered); err != nil {
		fatalf("write: %v", err)
	}
}

func codecFor(name string) (codec.Codec, error) {
	switch name {
	case "json":
		return codec.JSON{}, nil
	case "yaml":
		return codec.YAML{}, nil
	case "msgpack":
		return codec.Msgpack{}, nil
	}
	return nil, fmt.Errorf("unknown format %q", name)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
