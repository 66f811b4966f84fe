// Command hllbench measures sketch accuracy on synthetic workloads.
//
// It builds two sketches over partially overlapping key sets, runs the full
// operator surface (union, intersection, diff, BSS) and reports every
// estimate against the known truth. With -redis it also round-trips one
// sketch through a live Redis instance.
//
// Usage:
//
//	hllbench -p 12 -n 1000000 -overlap 0.3
//	hllbench -hash murmur3 -redis localhost:6379
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sketchbits/hllset"
	"github.com/sketchbits/hllset/hllstore"
)

func main() {
	var (
		precision = flag.Uint("p", hllset.DefaultPrecision, "precision (index bits)")
		items     = flag.Int("n", 100_000, "distinct items per side")
		overlap   = flag.Float64("overlap", 0.5, "fraction of each side shared with the other")
		seed      = flag.Uint64("seed", hllset.DefaultSeed, "hash seed")
		family    = flag.String("hash", "xxh3", "hash family: xxh3 or murmur3")
		redisAddr = flag.String("redis", "", "optional Redis address for a store roundtrip")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var fam hllset.HashFamily
	switch *family {
	case "xxh3":
		fam = hllset.HashXXH3
	case "murmur3":
		fam = hllset.HashMurmur3
	default:
		log.Fatal().Str("hash", *family).Msg("unknown hash family")
	}
	if *overlap < 0 || *overlap > 1 {
		log.Fatal().Float64("overlap", *overlap).Msg("overlap must be in [0, 1]")
	}

	settings := hllset.Settings{
		Precision: uint8(*precision),
		Seed:      *seed,
		Hash:      fam,
		Tau:       hllset.DefaultTau,
		Rho:       hllset.DefaultRho,
	}
	a, err := hllset.NewWithSettings(settings)
	if err != nil {
		log.Fatal().Err(err).Msg("bad settings")
	}
	b, err := hllset.NewWithSettings(settings)
	if err != nil {
		log.Fatal().Err(err).Msg("bad settings")
	}

	n := *items
	shared := int(float64(n) * *overlap)
	log.Info().
		Uint8("p", settings.Precision).
		Str("hash", fam.String()).
		Int("items_per_side", n).
		Int("shared", shared).
		Float64("expected_stderr", hllset.StandardError(settings.Precision)).
		Msg("workload")

	// Side A covers [0, n); side B covers [n-shared, 2n-shared).
	start := time.Now()
	for i := range n {
		a.InsertString(key(i))
		b.InsertString(key(i + n - shared))
	}
	log.Info().Dur("elapsed", time.Since(start)).Int("inserted", 2*n).Msg("insert done")

	report("A", a.Estimate(), float64(n))
	report("B", b.Estimate(), float64(n))

	u, err := a.Union(b)
	if err != nil {
		log.Fatal().Err(err).Msg("union")
	}
	report("A|B", u.Estimate(), float64(2*n-shared))

	x, err := a.Intersect(b)
	if err != nil {
		log.Fatal().Err(err).Msg("intersect")
	}
	report("A&B", x.Estimate(), float64(shared))

	d, err := a.Diff(b)
	if err != nil {
		log.Fatal().Err(err).Msg("diff")
	}
	report("deleted", d.Deleted.Estimate(), float64(n-shared))
	report("retained", d.Retained.Estimate(), float64(shared))
	report("new", d.New.Estimate(), float64(n-shared))

	m, err := a.BSS(b)
	if err != nil {
		log.Fatal().Err(err).Msg("bss")
	}
	log.Info().
		Float64("tau", m.Tau).
		Float64("rho", m.Rho).
		Float64("tau_truth", float64(shared)/float64(n)).
		Float64("rho_truth", float64(n-shared)/float64(n)).
		Msg("bss")

	blob, err := a.MarshalBinary()
	if err != nil {
		log.Fatal().Err(err).Msg("marshal")
	}
	log.Info().Int("bytes", len(blob)).Str("id", a.ID()).Msg("serialized")

	if *redisAddr != "" {
		storeRoundtrip(*redisAddr, a)
	}
}

func key(i int) string {
	return fmt.Sprintf("item-%d", i)
}

// report logs one estimate against its known truth.
func report(op string, est, truth float64) {
	ev := log.Info().Str("op", op).Float64("estimate", est).Float64("truth", truth)
	if truth > 0 {
		ev = ev.Str("err", fmt.Sprintf("%+.2f%%", (est-truth)/truth*100))
	}
	ev.Msg("estimate")
}

// storeRoundtrip saves the sketch to Redis under its ID, loads it back and
// verifies the copy.
func storeRoundtrip(addr string, s *hllset.Sketch) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	st := hllstore.New(client, "hllbench")
	start := time.Now()
	id, err := st.SaveByID(ctx, s)
	if err != nil {
		log.Fatal().Err(err).Msg("store save")
	}
	restored, err := st.Load(ctx, id)
	if err != nil {
		log.Fatal().Err(err).Msg("store load")
	}
	log.Info().
		Dur("elapsed", time.Since(start)).
		Str("id", id).
		Bool("identical", restored.Equal(s)).
		Msg("redis roundtrip")
}
