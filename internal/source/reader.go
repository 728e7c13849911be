package source

import (
	"bufio"
	"context"
	"io"
)

// ScanReader feeds every line of r to fn until EOF or context
// cancellation. Lines longer than the scanner default are tolerated:
// build logs can carry very long link command lines.
func ScanReader(ctx context.Context, r io.Reader, fn func(string)) error {
	sc := bufio.NewScanner(r)
	const maxCapacity = 1024 * 1024 // 1 MB
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, maxCapacity)

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		fn(sc.Text())
	}
	return sc.Err()
}
