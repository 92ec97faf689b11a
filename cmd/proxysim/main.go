// Command proxysim fans out concurrent readers and writers against a
// cache.Cache, the way an HTTP/1.0 forward proxy's worker goroutines would
// contend on the object store, and reports final accounting.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cs-systems/segheap/cache"
)

var (
	capacity      int
	maxObjectSize int
	readers       int
	writers       int
	requests      int
	keyCount      int
)

var rootCmd = &cobra.Command{
	Use:   "proxysim",
	Short: "Simulate concurrent proxy traffic against the object cache",
	RunE:  run,
}

func init() {
	rootCmd.Flags().IntVar(&capacity, "capacity", 1<<20, "cache capacity in bytes")
	rootCmd.Flags().IntVar(&maxObjectSize, "max-object", 65536, "maximum cached object size in bytes")
	rootCmd.Flags().IntVar(&readers, "readers", 5, "number of concurrent reader goroutines")
	rootCmd.Flags().IntVar(&writers, "writers", 2, "number of concurrent writer goroutines")
	rootCmd.Flags().IntVar(&requests, "requests", 5000, "requests per goroutine")
	rootCmd.Flags().IntVar(&keyCount, "keys", 64, "distinct (host, uri) keys in the working set")
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
	c := cache.New(capacity, maxObjectSize)

	for i := 0; i < keyCount; i++ {
		if err := c.Write("proxysim", fmt.Sprintf("/object/%d", i), make([]byte, 512)); err != nil {
			return fmt.Errorf("seed key %d: %w", i, err)
		}
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	for r := 0; r < readers; r++ {
		r := r
		g.Go(func() error { return readWorker(ctx, c, r) })
	}
	for w := 0; w < writers; w++ {
		w := w
		g.Go(func() error { return writeWorker(ctx, c, w) })
	}

	if err := g.Wait(); err != nil {
		return err
	}

	stats := c.Stats()
	fmt.Printf("entries=%d bytes=%d hits=%d misses=%d evictions=%d rejections=%d\n",
		stats.Entries, stats.BytesUsed, stats.Hits, stats.Misses, stats.Evictions, stats.Rejections)
	return nil
}

func readWorker(ctx context.Context, c *cache.Cache, id int) error {
	rng := rand.New(rand.NewSource(int64(id) + 1))
	for i := 0; i < requests; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		uri := fmt.Sprintf("/object/%d", rng.Intn(keyCount))
		c.Read("proxysim", uri)
	}
	return nil
}

func writeWorker(ctx context.Context, c *cache.Cache, id int) error {
	rng := rand.New(rand.NewSource(int64(id) + 1000))
	for i := 0; i < requests; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		uri := fmt.Sprintf("/object/%d", rng.Intn(keyCount))
		size := 1 + rng.Intn(maxObjectSize/4)
		if err := c.Write("proxysim", uri, make([]byte, size)); err != nil && err != cache.ErrNoRoom {
			return err
		}
	}
	return nil
}
