// Package loader reads newline-delimited text in fixed-size chunks of lines.
//
// A Loader owns its input and a running line counter for one pass over the
// input. In asynchronous mode (the default) a single background goroutine
// reads ahead and hands chunks over a channel with room for exactly one
// chunk, so the reader is never more than one chunk ahead of the consumer.
//
// End of input is signalled in-band: the reader always finishes by sending
// a tagged terminal message, and the consumer sees it as a zero-length
// chunk. Every Get after that returns the zero-length chunk again without
// touching the input.
//
//	l, err := loader.Open("calls.vcf.gz", loader.WithChunkSize(500))
//	if err != nil {
//	    return err
//	}
//	defer l.Close()
//	for {
//	    chunk, err := l.Get(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    if chunk.IsTerminal() {
//	        break
//	    }
//	    process(chunk.Records())
//	}
package loader
