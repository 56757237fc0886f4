// Package pipeline runs a line transform over inputs too large to hold in
// memory.
//
// An Engine pulls chunks of lines from a loader, fans each chunk out to a
// fixed pool of worker goroutines, collects the results under the configured
// ordering policy, drops lines whose transform returned SkipLine, and hands
// the survivors to a sink. One chunk is fully collected and written before
// the next is requested, so memory use is bounded by two chunks: the one
// being processed and the one the loader has read ahead.
//
//	upper := func(_ context.Context, rec loader.Record) (string, error) {
//	    return strings.ToUpper(rec.Line), nil
//	}
//	e, err := pipeline.New(upper, pipeline.WithWorkers(4), pipeline.WithOrdered(true))
//	if err != nil {
//	    return err
//	}
//	_, err = e.Run(ctx, "calls.vcf.gz", "calls.upper.txt")
//
// A transform error aborts the run with WORKER_FAILURE. Output written by
// earlier chunks stays on disk; memory runs return no results.
package pipeline
