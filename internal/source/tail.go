package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Tail follows a log file, feeding each complete appended line to fn
// until the context is cancelled. With fromStart the existing content
// is replayed first; otherwise reading begins at the current end.
// Truncation and rotation-in-place restart reading from offset zero.
func Tail(ctx context.Context, path string, fromStart bool, fn func(string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: write events for the file itself plus
	// create events when the file is rotated and recreated.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = f.Close() }()

	var offset int64
	if !fromStart {
		offset, err = f.Seek(0, io.SeekEnd)
		if err != nil {
			return err
		}
	}

	r := bufio.NewReader(f)
	var partial strings.Builder

	for {
		chunk, rerr := r.ReadString('\n')
		offset += int64(len(chunk))
		if rerr == nil {
			partial.WriteString(strings.TrimRight(chunk, "\r\n"))
			fn(partial.String())
			partial.Reset()
			continue
		}
		if rerr != io.EOF {
			return rerr
		}
		// Incomplete line: keep it until the writer finishes it.
		partial.WriteString(chunk)

		select {
		case <-ctx.Done():
			return nil
		case werr := <-w.Errors:
			return werr
		case ev := <-w.Events:
			if ev.Name != path {
				continue
			}
			switch {
			case ev.Op&fsnotify.Create != 0:
				// Rotated in place: reopen and start over.
				nf, oerr := os.Open(path)
				if oerr != nil {
					continue
				}
				_ = f.Close()
				f = nf
				r.Reset(f)
				offset = 0
				partial.Reset()
			case ev.Op&fsnotify.Write != 0:
				fi, serr := f.Stat()
				if serr == nil && fi.Size() < offset {
					// Truncated: re-read from the top.
					if _, serr = f.Seek(0, io.SeekStart); serr != nil {
						return serr
					}
					r.Reset(f)
					offset = 0
					partial.Reset()
				}
			}
		}
	}
}
