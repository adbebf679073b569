package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func gpuCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gpu-check",
		Short: "Report whether the accelerator backend is available on this host",
		RunE: func(cmd *cobra.Command, args []string) error {
			if engine.IsGpuAvailable() {
				fmt.Println("accelerator backend available")
			} else {
				fmt.Println("accelerator backend unavailable; falling back to portable")
			}
			return nil
		},
	}
}
