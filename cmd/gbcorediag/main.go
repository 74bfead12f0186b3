// Command gbcorediag is a headless diagnostic runner: it loads a ROM, runs
// it for a fixed number of frames with no display attached, and reports
// whether the CPU got stuck along with basic timing. It is not a
// frontend — no windowing, no input, no audio.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	gbcore "github.com/8bitlab/gbcore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		frames  int
		cgb     bool
		bootROM string
	)

	cmd := &cobra.Command{
		Use:   "gbcorediag <rom>",
		Short: "Run a Game Boy ROM headlessly and report CPU/timing diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], frames, cgb, bootROM)
		},
	}

	cmd.Flags().IntVarP(&frames, "frames", "n", 600, "number of frames to run before reporting")
	cmd.Flags().BoolVar(&cgb, "cgb", false, "force Game Boy Color mode")
	cmd.Flags().StringVar(&bootROM, "boot", "", "optional boot ROM image to execute before the cartridge entry point")

	return cmd
}

func run(cmd *cobra.Command, romPath string, frames int, cgb bool, bootROMPath string) error {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("gbcorediag: reading ROM: %w", err)
	}

	var opts []gbcore.Option
	if cgb {
		opts = append(opts, gbcore.WithCGBForced())
	}
	if bootROMPath != "" {
		boot, err := os.ReadFile(bootROMPath)
		if err != nil {
			return fmt.Errorf("gbcorediag: reading boot ROM: %w", err)
		}
		opts = append(opts, gbcore.WithBootROM(boot))
	}

	core, err := gbcore.New(rom, opts...)
	if err != nil {
		return fmt.Errorf("gbcorediag: constructing core: %w", err)
	}

	start := time.Now()
	completed := 0
	for i := 0; i < frames; i++ {
		if core.TickFrame() == gbcore.Stopped {
			break
		}
		completed++
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frames completed: %d/%d\n", completed, frames)
	fmt.Fprintf(out, "elapsed: %s (%.1f fps)\n", elapsed, float64(completed)/elapsed.Seconds())
	if core.CPUStuck() {
		fmt.Fprintln(out, "CPU stuck: yes")
		fmt.Fprintln(out, core.DumpCPUState())
	} else {
		fmt.Fprintln(out, "CPU stuck: no")
	}
	if serial := core.SerialOutput(); serial != 0xFF {
		fmt.Fprintf(out, "last serial byte: %02X\n", serial)
	}

	return nil
}
