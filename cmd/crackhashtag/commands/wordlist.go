package commands

import (
	"bufio"
	"fmt"
	"os"
)

// readWordlistFile reads a newline-delimited word list from disk, mirroring
// the line-scanning style atomic_decryptor's startProc uses for its own
// wordlist input.
func readWordlistFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wordlist: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading wordlist: %w", err)
	}
	return words, nil
}
