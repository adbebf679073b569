// Package commands wires the cracking engine into a cobra command tree,
// mirroring the root/persistent-flag split in Ciphera's
// cmd/ciphera/commands/root.go.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/jkingsman/meshcore-hashtag-cracker/internal/crack"
)

var (
	wordlistPath string
	wordlistURL  string

	maxLength      int
	startingLength int
	noDictionary   bool
	noTimestamp    bool
	validSeconds   int64
	noUTF8         bool
	noSender       bool
	forceCPU       bool
	gpuDispatchMs  int

	resumeFrom string
	resumeType string

	engine *crack.Engine
)

// Execute builds the command tree and runs it.
func Execute() error {
	root := &cobra.Command{
		Use:   "crackhashtag",
		Short: "Recover a MeshCore group-text channel name and key from a captured packet",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			engine = crack.New()
			if wordlistPath != "" {
				words, err := readWordlistFile(wordlistPath)
				if err != nil {
					return err
				}
				engine.SetWordlist(words)
			} else if wordlistURL != "" {
				if err := engine.LoadWordlist(cmd.Context(), wordlistURL); err != nil {
					return err
				}
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if engine != nil {
				engine.Destroy()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&wordlistPath, "wordlist", "", "path to a newline-delimited word list")
	root.PersistentFlags().StringVar(&wordlistURL, "wordlist-url", "", "URL to fetch a newline-delimited word list from")
	root.PersistentFlags().IntVar(&maxLength, "max-length", 8, "maximum room-name length to try")
	root.PersistentFlags().IntVar(&startingLength, "starting-length", 1, "minimum room-name length to try")
	root.PersistentFlags().BoolVar(&noDictionary, "no-dictionary", false, "skip the dictionary phase")
	root.PersistentFlags().BoolVar(&noTimestamp, "no-timestamp-filter", false, "disable the timestamp plausibility filter")
	root.PersistentFlags().Int64Var(&validSeconds, "valid-seconds", 2592000, "timestamp filter window, in seconds")
	root.PersistentFlags().BoolVar(&noUTF8, "no-utf8-filter", false, "disable the UTF-8 plausibility filter")
	root.PersistentFlags().BoolVar(&noSender, "no-sender-filter", false, "disable the sender-presence filter")
	root.PersistentFlags().BoolVar(&forceCPU, "force-cpu", false, "never use the accelerator backend")
	root.PersistentFlags().IntVar(&gpuDispatchMs, "gpu-dispatch-ms", 1000, "accelerator auto-tuning target dispatch time, in milliseconds")
	root.PersistentFlags().StringVar(&resumeFrom, "resume-from", "", "room name to resume searching after")
	root.PersistentFlags().StringVar(&resumeType, "resume-type", "bruteforce", "phase the --resume-from cursor belongs to: dictionary or bruteforce")

	root.AddCommand(crackCmd(), gpuCheckCmd())
	return root.Execute()
}

// optionsFromFlags builds crack.Options from the persistent flags.
func optionsFromFlags() crack.Options {
	opts := crack.DefaultOptions()
	opts.MaxLength = maxLength
	opts.StartingLength = startingLength
	opts.UseDictionary = !noDictionary
	opts.UseTimestampFilter = !noTimestamp
	opts.ValidSeconds = validSeconds
	opts.UseUTF8Filter = !noUTF8
	opts.UseSenderFilter = !noSender
	opts.ForceCPU = forceCPU
	opts.GPUDispatchMs = gpuDispatchMs
	opts.StartFrom = resumeFrom
	if resumeType == string(crack.ResumeDictionary) {
		opts.StartFromType = crack.ResumeDictionary
	} else {
		opts.StartFromType = crack.ResumeBruteforce
	}
	return opts
}
