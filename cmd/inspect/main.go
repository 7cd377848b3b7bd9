// Command inspect loads a JSON schema file, prints the computed byte
// layout of a type, and decodes raw fixture files against it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/wippyai/cstruct/codec"
	"github.com/wippyai/cstruct/schema"
	"github.com/wippyai/cstruct/schemafile"
)

func main() {
	var (
		schemaPath  = flag.String("schema", "", "Path to JSON schema file")
		typeName    = flag.String("type", "", "Type to inspect (optional with -list)")
		packName    = flag.String("pack", "natural", "Packing policy: packed or natural")
		orderName   = flag.String("order", "little", "Byte order: little or big")
		dataPath    = flag.String("decode", "", "Raw data file to decode against the type")
		list        = flag.Bool("list", false, "List declared types and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *schemaPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: inspect -schema <file.json> -type <name> [-pack packed|natural] [-order little|big]")
		fmt.Fprintln(os.Stderr, "       inspect -schema <file.json> -list")
		fmt.Fprintln(os.Stderr, "       inspect -schema <file.json> -i  (interactive mode)")
		os.Exit(1)
	}

	set, err := schemafile.Load(*schemaPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	pack, ok := schema.PackingByName(*packName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown packing %q\n", *packName)
		os.Exit(1)
	}
	order, ok := schema.OrderByName(*orderName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown byte order %q\n", *orderName)
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(set, pack, order); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(set, *typeName, pack, order, *dataPath, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(set *schemafile.Set, typeName string, pack schema.Packing, order schema.ByteOrder, dataPath string, listOnly bool) error {
	if listOnly {
		fmt.Printf("Declared types:\n")
		for _, name := range set.Names() {
			t, _ := set.Lookup(name)
			packed, err := codec.SizeOf(t, schema.Packed)
			if err != nil {
				return err
			}
			natural, err := codec.SizeOf(t, schema.Natural)
			if err != nil {
				return err
			}
			fmt.Printf("  %-30s %4d bytes packed, %4d bytes natural\n", name, packed, natural)
		}
		return nil
	}

	if typeName == "" {
		return fmt.Errorf("no -type given; use -list to see declared types")
	}
	t, ok := set.Lookup(typeName)
	if !ok {
		return fmt.Errorf("type %q not declared in schema", typeName)
	}

	info, err := codec.Layout(t, pack)
	if err != nil {
		return err
	}

	fmt.Printf("Type: %s (%s, %s byte order)\n", t, pack, order)
	fmt.Printf("Size: %d bytes, alignment %d\n\n", info.Size, info.Align)
	fmt.Printf("%-24s %8s %6s %10s  %s\n", "Field", "Offset", "Size", "Bits", "Type")
	for _, f := range info.Fields {
		bits := "-"
		if f.Bits > 0 {
			bits = fmt.Sprintf("%d:%d", f.BitOffset, f.Bits)
		}
		fmt.Printf("%-24s %8d %6d %10s  %s\n", f.Name, f.Offset, f.Size, bits, f.Type)
	}

	if dataPath == "" {
		return nil
	}

	raw, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("read data file: %w", err)
	}
	value, err := codec.Decode(t, raw, pack, order)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	rendered, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	fmt.Printf("\nDecoded %s:\n%s\n", dataPath, rendered)
	return nil
}
