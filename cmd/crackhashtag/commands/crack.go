package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jkingsman/meshcore-hashtag-cracker/internal/crack"
)

// statsInterval is how often the crack subcommand prints a progress line
// to stderr, mirroring atomic_decryptor's -s stats interval but fixed,
// since onProgress is already throttled upstream (spec.md §5).
const statsInterval = 2 * time.Second

func crackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crack <hex-packet>",
		Short: "Search for the room name and key behind a captured packet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hexPacket := args[0]
			opts := optionsFromFlags()

			printWelcomeScreen(hexPacket, opts, engine.IsGpuAvailable())

			interruptChan := make(chan os.Signal, 1)
			signal.Notify(interruptChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-interruptChan
				fmt.Fprintln(os.Stderr, "\nCtrl+C pressed. Stopping search...")
				engine.Abort()
			}()

			var lastPrint time.Time
			result := engine.Crack(hexPacket, opts, func(p crack.ProgressReport) {
				if time.Since(lastPrint) < statsInterval {
					return
				}
				lastPrint = time.Now()
				fmt.Fprintf(os.Stderr, "[%s] checked=%d rate=%.0f/s elapsed=%.0fs eta=%.0fs\n",
					p.Phase, p.Checked, p.RatePerSecond, p.ElapsedSeconds, p.EtaSeconds)
			})
			signal.Stop(interruptChan)

			return printResult(result)
		},
	}
}

func printResult(result crack.Result) error {
	if result.Error != "" {
		return fmt.Errorf("crack: %s", result.Error)
	}
	if result.Aborted {
		fmt.Fprintln(os.Stderr, "Aborted.")
		printResume(result)
		return nil
	}
	if !result.Found {
		fmt.Fprintln(os.Stderr, "Exhausted search space without a match.")
		printResume(result)
		return nil
	}

	fmt.Printf("Room name:\t%s\n", result.RoomName)
	fmt.Printf("Key:\t\t%x\n", result.Key)
	fmt.Printf("Message:\t%s\n", result.DecryptedMessage)
	printResume(result)
	return nil
}

func printResume(result crack.Result) {
	if result.ResumeFrom == "" {
		return
	}
	fmt.Fprintf(os.Stderr, "Resume with: --resume-from=%q --resume-type=%s\n", result.ResumeFrom, result.ResumeType)
}
