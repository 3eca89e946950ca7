package util

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Writer buffers output from a worker goroutine in a strings.Builder.
// When Flush or Close is called the buffer is emptied and sent to the
// designated output writer through channel c. One Writer is handed to each
// goroutine that emits one machine function's worth of assembly text, so
// concurrent emission never contends on a shared buffer.
type Writer struct {
	sb strings.Builder
	c  chan string
}

// ---------------------
// ----- Constants -----
// ---------------------

var wc chan string     // Write channel used for receiving data from worker goroutines.
var cc chan error      // Close channel used by the driver to signal the end of write operations.
var wg *sync.WaitGroup // Used for synchronising when I/O finished writing to output.

// ---------------------
// ----- Functions -----
// ---------------------

// Write writes a format string to the Writer's buffer.
func (w *Writer) Write(format string, args ...interface{}) {
	w.sb.WriteString(fmt.Sprintf(format, args...))
}

// WriteString writes a plain string to the Writer's buffer.
func (w *Writer) WriteString(s string) {
	w.sb.WriteString(s)
}

// Ins0 writes a one-line instruction with no operands.
func (w *Writer) Ins0(op string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\n", op))
}

// Ins1 writes a one-line instruction using the operator and single operand.
func (w *Writer) Ins1(op, rs1 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s\n", op, rs1))
}

// Ins2 writes a one-line instruction using the operator and two operands.
func (w *Writer) Ins2(op, rd, rs1 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s\n", op, rd, rs1))
}

// Ins3 writes a one-line instruction using the operator and three operands.
func (w *Writer) Ins3(op, rd, rs1, rs2 string) {
	w.sb.WriteString(fmt.Sprintf("\t%s\t%s, %s, %s\n", op, rd, rs1, rs2))
}

// Label writes a one-line label with the given name.
func (w *Writer) Label(name string) {
	w.sb.WriteString(fmt.Sprintf("%s:\n", name))
}

// Comment appends a trailing `# comment` to the last emitted line.
func (w *Writer) Comment(format string, args ...interface{}) {
	s := w.sb.String()
	s = strings.TrimSuffix(s, "\n")
	w.sb.Reset()
	w.sb.WriteString(s)
	w.sb.WriteString(fmt.Sprintf("\t# %s\n", fmt.Sprintf(format, args...)))
}

// Flush empties the Writer's buffer and sends the buffer data to the
// designated output writer over the Writer's channel.
func (w *Writer) Flush() {
	w.c <- w.sb.String()
	w.sb = strings.Builder{}
}

// Close flushes the Writer's buffer and then detaches the Writer from its channel.
func (w *Writer) Close() {
	w.Flush()
	w.c = nil
	wg.Done()
}

// NewWriter returns a new Writer to be used by a worker goroutine to write
// assembly text concurrently into the output buffer. Must not be called
// before the driver has called ListenWrite.
func NewWriter() Writer {
	wg.Add(1)
	return Writer{
		sb: strings.Builder{},
		c:  wc,
	}
}

// NewLocalWriter returns a Writer with its own private buffer, detached
// from the shared ListenWrite channel. Used where a caller needs to collect
// and reassemble several Writers' output in a specific order rather than
// stream it as each one completes.
func NewLocalWriter() Writer {
	return Writer{sb: strings.Builder{}}
}

// String returns the Writer's buffered text without sending it anywhere.
func (w *Writer) String() string {
	return w.sb.String()
}

// ListenWrite listens for worker goroutine output. The received data is
// written to f if f is not nil, or to stdout otherwise. ListenWrite returns
// at once; the listener goroutine it starts loops until Close is called.
func ListenWrite(opt Options, f *os.File, wgg *sync.WaitGroup) {
	wg = wgg
	if opt.Threads > 1 {
		wc = make(chan string, opt.Threads+1)
	} else {
		wc = make(chan string, 1)
	}
	cc = make(chan error, 1) // Buffered to catch Close before the listener goroutine starts.
	var w *bufio.Writer
	if f != nil {
		w = bufio.NewWriter(f)
	} else {
		w = bufio.NewWriter(os.Stdout)
	}

	go func(wc chan string, cc chan error) {
		defer close(wc)
		defer close(cc)
		for {
			select {
			case s := <-wc:
				if _, err := w.WriteString(s); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
				if err := w.Flush(); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
			case <-cc:
				return
			}
		}
	}(wc, cc)
}

// Close sends the termination signal to the writer listener goroutine.
func Close() {
	cc <- nil
}
