package correction

import (
	"errors"
	"fmt"
	"io"
)

// Accumulator collects streamed chunks and tracks the current snapshot.
// The zero value is ready to use.
type Accumulator struct {
	buf      []byte
	snapshot Result
	complete bool
}

// Write appends a chunk and reports whether the snapshot changed.
// A chunk that would shorten or rewrite an already seen value returns
// ErrNotMonotonic and leaves the accumulator unchanged.
func (a *Accumulator) Write(chunk []byte) (changed bool, err error) {
	buf := append(a.buf, chunk...)
	next, complete, err := ParsePartial(buf)
	if err != nil {
		return false, err
	}
	if !next.extends(a.snapshot) {
		return false, fmt.Errorf("%w: %q/%q after %q/%q", ErrNotMonotonic,
			next.FixedText, next.Explanation, a.snapshot.FixedText, a.snapshot.Explanation)
	}

	changed = next != a.snapshot || complete != a.complete
	a.buf = buf
	a.snapshot = next
	a.complete = complete
	return changed, nil
}

// Snapshot returns the current partial result.
func (a *Accumulator) Snapshot() Result { return a.snapshot }

// Complete reports whether the result object has been closed.
func (a *Accumulator) Complete() bool { return a.complete }

// Bytes returns the raw text received so far.
func (a *Accumulator) Bytes() []byte { return a.buf }

// Final returns the finished result. It fails with ErrIncomplete if the
// object was never closed, or ErrNonConforming if it breaks the schema.
func (a *Accumulator) Final() (Result, error) {
	if !a.complete {
		return Result{}, ErrIncomplete
	}
	return DecodeResult(a.buf)
}

// SnapshotReader turns a stream of text chunks into snapshots.
//
//	sr := correction.NewSnapshotReader(body)
//	for sr.Next() {
//		render(sr.Snapshot())
//	}
//	res, err := sr.Final()
type SnapshotReader struct {
	r       io.Reader
	acc     Accumulator
	buf     []byte
	readErr error
	err     error
	done    bool
}

// NewSnapshotReader returns a reader over r.
func NewSnapshotReader(r io.Reader) *SnapshotReader {
	return &SnapshotReader{r: r, buf: make([]byte, 4096)}
}

// Next blocks until the snapshot changes. It returns false once the
// stream has ended or failed.
func (s *SnapshotReader) Next() bool {
	for !s.done {
		if s.readErr != nil {
			s.finish(s.readErr)
			return false
		}

		n, err := s.r.Read(s.buf)
		s.readErr = err
		if n == 0 {
			continue
		}

		changed, werr := s.acc.Write(s.buf[:n])
		if werr != nil {
			s.finish(werr)
			return false
		}
		if changed {
			return true
		}
	}
	return false
}

func (s *SnapshotReader) finish(err error) {
	s.done = true
	if !errors.Is(err, io.EOF) {
		s.err = err
	}
}

// Snapshot returns the latest snapshot.
func (s *SnapshotReader) Snapshot() Result { return s.acc.Snapshot() }

// Err returns the error that stopped the stream, if any. A clean end of
// stream is not an error.
func (s *SnapshotReader) Err() error { return s.err }

// Final drains the stream and returns the complete result.
func (s *SnapshotReader) Final() (Result, error) {
	for s.Next() {
	}
	if s.err != nil {
		return Result{}, fmt.Errorf("stream broken: %w", s.err)
	}
	return s.acc.Final()
}
