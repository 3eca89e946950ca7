package emit

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"tacc/src/mir"
	"tacc/src/util"
)

// Render translates every function in p into assembly text and returns the
// full program, prologue included. When opt.Threads > 1, functions are
// rendered concurrently, one goroutine per chunk, and reassembled back into
// function-id order before being joined — the ordering guarantee
// concurrent allocation doesn't need but concurrent text emission does
// (spec.md §4.9 domain-stack addition).
func Render(opt util.Options, p *mir.Program) (string, error) {
	opt = opt.Normalize()
	n := len(p.Functions)
	texts := make([]string, n)

	if opt.Threads <= 1 || n <= 1 {
		for i, f := range p.Functions {
			text, err := renderFunction(f)
			if err != nil {
				return "", errors.Wrapf(err, "emit: function %q", f.Name)
			}
			texts[i] = text
		}
	} else {
		threads := opt.Threads
		if threads > n {
			threads = n
		}
		perr := util.NewPerror(threads)
		wg := sync.WaitGroup{}
		wg.Add(threads)

		chunk := (n + threads - 1) / threads
		for t := 0; t < threads; t++ {
			start := t * chunk
			end := start + chunk
			if end > n {
				end = n
			}
			go func(start, end int) {
				defer wg.Done()
				for i := start; i < end; i++ {
					text, err := renderFunction(p.Functions[i])
					if err != nil {
						perr.Append(errors.Wrapf(err, "function %q", p.Functions[i].Name))
						continue
					}
					texts[i] = text
				}
			}(start, end)
		}
		wg.Wait()

		if perr.Len() > 0 {
			var msgs []string
			for e := range perr.Errors() {
				msgs = append(msgs, e.Error())
			}
			return "", fmt.Errorf("%d error(s) during assembly emission: %v", len(msgs), msgs)
		}
	}

	sb := strings.Builder{}
	sb.WriteString(prologue)
	for _, t := range texts {
		sb.WriteString(t)
	}
	return sb.String(), nil
}

// renderFunction translates one function's blocks, in linearization order,
// into its assembly text.
func renderFunction(f *mir.Function) (string, error) {
	w := util.NewLocalWriter()
	w.Label(functionLabel(f.Name))
	for _, b := range f.Blocks {
		for _, inst := range b.Instructions {
			if err := translateInstruction(&w, inst); err != nil {
				return "", errors.Wrapf(err, "block %s", b.Label())
			}
		}
	}
	return w.String(), nil
}

// WriteProgram renders p and writes it to out. Kept alongside Render as a
// thin adapter for callers that just want a file written, without caring
// about the intermediate string.
func WriteProgram(opt util.Options, p *mir.Program, out *os.File) error {
	text, err := Render(opt, p)
	if err != nil {
		return err
	}
	_, err = out.WriteString(text)
	return err
}
