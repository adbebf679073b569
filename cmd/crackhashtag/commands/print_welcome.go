package commands

import (
	"fmt"
	"os"

	"github.com/jkingsman/meshcore-hashtag-cracker/internal/crack"
)

// printWelcomeScreen mirrors atomic_decryptor's boxed banner.
func printWelcomeScreen(hexPacket string, opts crack.Options, gpuAvailable bool) {
	fmt.Fprintln(os.Stderr, " ------------------------------------------- ")
	fmt.Fprintln(os.Stderr, "|       meshcore-hashtag-cracker           |")
	fmt.Fprintln(os.Stderr, " ------------------------------------------- ")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Packet:\t\t%s\n", hexPacket)
	fmt.Fprintf(os.Stderr, "Lengths:\t%d-%d\n", opts.StartingLength, opts.MaxLength)
	fmt.Fprintf(os.Stderr, "Dictionary:\t%v\n", opts.UseDictionary)
	if opts.ForceCPU {
		fmt.Fprintln(os.Stderr, "Backend:\tportable (forced)")
	} else if gpuAvailable {
		fmt.Fprintln(os.Stderr, "Backend:\taccelerator")
	} else {
		fmt.Fprintln(os.Stderr, "Backend:\tportable (accelerator unavailable)")
	}
	if opts.StartFrom != "" {
		fmt.Fprintf(os.Stderr, "Resuming:\tafter %q (%s)\n", opts.StartFrom, opts.StartFromType)
	}
	fmt.Fprintln(os.Stderr)
}
