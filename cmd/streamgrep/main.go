// Streamgrep searches files or standard input for literal patterns and
// prints the absolute byte offset of every occurrence, in the style of
// grep -bo. Input is streamed through a bounded subject buffer, so sources
// of arbitrary length are searched in constant memory.
//
// Usage:
//
//	streamgrep [flags] pattern [file...]
//	streamgrep [flags] -rules rules.yaml [file...]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/coregx/streamwin"
	"github.com/coregx/streamwin/literal"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("streamgrep: ")

	rulesFile := flag.String("rules", "",
		"YAML rules file with a list of patterns")
	minBuffer := flag.Int("min-buffer", 0,
		"initial window size in bytes (0 for default)")
	maxBuffer := flag.Int("max-buffer", 0,
		"maximum window size in bytes (0 for default)")
	flag.Parse()
	args := flag.Args()

	var patterns []string
	if *rulesFile != "" {
		var err error
		patterns, err = loadRules(*rulesFile)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		if len(args) == 0 {
			log.Fatal("no pattern given")
		}
		patterns = args[:1]
		args = args[1:]
	}

	m, err := literal.New(patterns)
	if err != nil {
		log.Fatal(err)
	}
	cfg := streamwin.ScanConfig{
		MinCapacity: *minBuffer,
		MaxCapacity: *maxBuffer,
	}

	if len(args) == 0 {
		if err := grep(os.Stdout, "(stdin)", os.Stdin, m, cfg); err != nil {
			log.Fatal(err)
		}
		return
	}
	for _, name := range args {
		f, err := os.Open(name)
		if err != nil {
			log.Fatal(err)
		}
		err = grep(os.Stdout, name, f, m, cfg)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
	}
}

// grep streams r through a scanner and prints one line per match.
func grep(w io.Writer, name string, r io.Reader, m *literal.Matcher,
	cfg streamwin.ScanConfig) error {

	s, err := streamwin.NewScanner(r, m, cfg)
	if err != nil {
		return err
	}
	for {
		match, err := s.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		fmt.Fprintf(w, "%s:%d:%s\n",
			name, match.Start, m.Pattern(match.Pattern))
	}
}
