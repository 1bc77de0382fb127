// Command relisp is a thin driver over the relisp core: it has no
// reader of its own (parsing surface syntax is an external
// collaborator, spec §1/§6), so it builds a handful of demonstration
// forms directly through the Go Cons/Symbol API, applies them, and
// prints either the result or, on exception, the exception's message
// on stderr — the same round trip a host embedding the package would
// drive from Go. The Backtrace call on the error path runs after Apply
// has popped every frame and writes to the in-memory
// *standard-output* stream, so no backtrace is shown.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relisp/relisp"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file overriding the defaults")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg := relisp.NewConfig()
	if *configPath != "" {
		loaded, err := relisp.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("can't load config: %s", err)
		}
		cfg = loaded
	}
	if *verbose {
		cfg.SetBool("log.verbose", true)
	}

	it := relisp.NewInterp(cfg)
	h := it.Heap()

	// A Ctrl-C only ever records the request (RequestInterrupt is safe
	// to call off the evaluation goroutine); it.Apply notices it at its
	// next entry and unwinds with an "interrupt" exception rather than
	// the process dying mid-evaluation.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range sigc {
			it.RequestInterrupt()
		}
	}()

	// (funcall (lambda (x y) (if x y 0)) t 42)
	lambda := h.NewCons(
		relisp.Intern("lambda"),
		h.NewCons(
			h.NewCons(relisp.Intern("x"), h.NewCons(relisp.Intern("y"), relisp.Nil)),
			h.NewCons(
				h.NewCons(relisp.Intern("if"),
					h.NewCons(relisp.Intern("x"),
						h.NewCons(relisp.Intern("y"),
							h.NewCons(relisp.Fixnum(0), relisp.Nil)))),
				relisp.Nil,
			),
		),
	)

	result, exc := it.Eval(lambda, it.GlobalEnv(), nil, false)
	if exc != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", exc.Error())
		it.Backtrace(nil)
		os.Exit(1)
	}

	out, exc := it.Call2(result, relisp.True, relisp.Fixnum(42))
	if exc != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", exc.Error())
		it.Backtrace(nil)
		os.Exit(1)
	}

	fmt.Println(relisp.Print(out))
}
