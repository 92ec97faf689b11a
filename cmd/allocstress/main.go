// Command allocstress drives the segmented free-list allocator through a
// randomized alloc/free/realloc workload, periodically running the heap
// checker against it, and prints a final activity summary.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"

	"github.com/cs-systems/segheap/allocator"
	"github.com/cs-systems/segheap/allocator/check"
	"github.com/cs-systems/segheap/internal/vmheap"
)

var (
	ops        int
	seed       int64
	checkEvery int
	verbose    bool
	maxLive    int
)

var rootCmd = &cobra.Command{
	Use:   "allocstress",
	Short: "Stress-test the segmented free-list allocator",
	RunE:  run,
}

func init() {
	rootCmd.Flags().IntVar(&ops, "ops", 20000, "number of alloc/free/realloc operations to run")
	rootCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	rootCmd.Flags().IntVar(&checkEvery, "check-every", 200, "run the heap checker every N operations")
	rootCmd.Flags().BoolVar(&verbose, "verbose", false, "log every checker pass, not just failures")
	rootCmd.Flags().IntVar(&maxLive, "max-live", 512, "cap on simultaneously live allocations")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	execute()
}

func run(cmd *cobra.Command, args []string) error {
	a, err := allocator.New(vmheap.New(), nil)
	if err != nil {
		return fmt.Errorf("init heap: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	verbosity := check.Silent
	if verbose {
		verbosity = check.Verbose
	}

	var live []allocator.Ptr

	for i := 0; i < ops; i++ {
		switch {
		case len(live) == 0 || (len(live) < maxLive && rng.Intn(3) != 0):
			size := uint32(1 + rng.Intn(2000))
			p, err := a.Alloc(size)
			if err != nil {
				printError("alloc(%d) failed at op %d: %v", size, i, err)
				break
			}
			if p != allocator.Null {
				live = append(live, p)
			}
		case rng.Intn(4) == 0:
			idx := rng.Intn(len(live))
			size := uint32(1 + rng.Intn(2000))
			np, err := a.Realloc(live[idx], size)
			if err != nil {
				printError("realloc failed at op %d: %v", i, err)
				break
			}
			live[idx] = np
		default:
			idx := rng.Intn(len(live))
			a.Free(live[idx])
			live[idx] = live[len(live)-1]
			live = live[:len(live)-1]
		}

		if checkEvery > 0 && i%checkEvery == 0 {
			if err := check.Heap(a, verbosity); err != nil {
				printError("heap check failed at op %d: %v", i, err)
				os.Exit(1)
			}
		}
	}

	if err := check.Heap(a, verbosity); err != nil {
		printError("final heap check failed: %v", err)
		os.Exit(1)
	}

	stats := a.Stats()
	printInfo("ops=%d live=%d alloc=%d free=%d extend=%d split=%d coalesce(fwd/back/both)=%d/%d/%d\n",
		ops, len(live), stats.AllocCalls, stats.FreeCalls, stats.ExtendCalls, stats.SplitCount,
		stats.CoalesceForward, stats.CoalesceBackward, stats.CoalesceBoth)
	return nil
}

func printInfo(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
}

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "allocstress: "+format+"\n", args...)
}
