// Package transfer receives size-bounded binary uploads from the link.
package transfer

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/d2verb/ledlink/internal/protocol"
)

// DefaultChunkSize bounds a single pull from the link.
const DefaultChunkSize = 1024

// link is the part of the transport a transfer needs.
type link interface {
	ReadExact(n int) ([]byte, error)
	WriteLine(text string) error
}

// store opens artifacts for writing.
type store interface {
	Create(name string) (*os.File, error)
}

// Session tracks one upload. It lives only for the duration of Receive.
type Session struct {
	ID       uuid.UUID
	Name     string
	Declared int64
	Received int64
}

// Outcome is the result of one upload attempt.
type Outcome struct {
	Name     string
	Declared int64
	Written  int64
	Complete bool
}

// Receiver pulls declared-size payloads into the artifact store.
type Receiver struct {
	link      link
	store     store
	logger    *slog.Logger
	chunkSize int
}

// NewReceiver creates a receiver reading from l and writing into s.
func NewReceiver(l link, s store, logger *slog.Logger) *Receiver {
	return &Receiver{
		link:      l,
		store:     s,
		logger:    logger,
		chunkSize: DefaultChunkSize,
	}
}

// SetChunkSize overrides the per-pull byte bound. Non-positive values are
// ignored.
func (r *Receiver) SetChunkSize(n int) {
	if n > 0 {
		r.chunkSize = n
	}
}

// Receive pulls size bytes into the artifact name and then sends
// ACK:<name>. The ack is sent whatever the outcome; it only tells the peer
// the attempt is over. When the artifact can't be written, the payload is
// still consumed so that the next line on the link is a command again.
//
// The returned error is non-nil only for link failures.
func (r *Receiver) Receive(name string, size int64) (Outcome, error) {
	s := &Session{ID: uuid.New(), Name: name, Declared: size}
	log := r.logger.With("transfer_id", s.ID.String(), "file", name)
	log.Info("receiving file", "expected_bytes", size)

	var sink io.Writer = io.Discard
	f, err := r.store.Create(name)
	if err != nil {
		log.Error("cannot store upload, discarding payload", "error", err)
	} else {
		sink = f
	}

	written, readErr := r.pull(s, sink, log)
	stored := f != nil
	if f != nil {
		if err := f.Close(); err != nil {
			log.Error("close artifact", "error", err)
			stored = false
		}
	}

	out := Outcome{
		Name:     name,
		Declared: size,
		Written:  written,
		Complete: stored && written == size,
	}
	if out.Complete {
		log.Info("received", "bytes", written)
	} else {
		log.Warn("incomplete", "bytes", written, "expected_bytes", size, "received_bytes", s.Received)
	}

	ack := protocol.AckLine(name)
	ackErr := r.link.WriteLine(ack)
	if ackErr != nil {
		log.Error("send ack failed", "error", ackErr)
	} else {
		log.Info("sent ack", "ack", ack)
	}

	return out, errors.Join(readErr, ackErr)
}

// pull copies chunks from the link into sink until the declared size is
// reached or a pull comes back empty. A failed sink write turns the rest
// of the transfer into a drain. It returns the bytes written to sink.
func (r *Receiver) pull(s *Session, sink io.Writer, log *slog.Logger) (int64, error) {
	var written int64
	for s.Received < s.Declared {
		want := min(int64(r.chunkSize), s.Declared-s.Received)
		chunk, err := r.link.ReadExact(int(want))
		if len(chunk) > 0 {
			s.Received += int64(len(chunk))
			if sink != io.Discard {
				n, werr := sink.Write(chunk)
				written += int64(n)
				if werr != nil {
					log.Error("write artifact failed, draining payload", "error", werr)
					sink = io.Discard
				}
			}
		}
		if err != nil {
			return written, err
		}
		if len(chunk) == 0 {
			break
		}
	}
	return written, nil
}
