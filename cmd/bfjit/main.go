/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

/*
bfjit runs tape-language programs, either interpreted or JIT-compiled to
native x86-64, and offers a development server, a file watcher and a
step debugger around the same engine.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/bfjit/bfjit/bf"
	"github.com/bfjit/bfjit/bf/debug"
	"github.com/bfjit/bfjit/bf/server"
	"github.com/bfjit/bfjit/bf/store"
	"github.com/bfjit/bfjit/bf/trace"
	"github.com/bfjit/bfjit/bf/watch"
)

func main() {
	fmt.Fprint(os.Stderr, `bfjit  Copyright (C) 2026  Carl-Philip Hänsch
    This program comes with ABSOLUTELY NO WARRANTY;
    This is free software, and you are welcome to redistribute it
    under certain conditions;
`)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		runCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "watch":
		watchCmd(os.Args[2:])
	case "debug":
		debugCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: bfjit <run|serve|watch|debug> [flags]")
}

func runCmd(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	mode := fs.String("mode", "interpret", "interpret or jit")
	dumpIR := fs.Bool("dump-ir", false, "print the parsed IR and exit")
	traceFile := fs.String("trace", "", "write a JSON execution trace to this file")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bfjit run [flags] <file.bf>")
		os.Exit(2)
	}
	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fatalf("%v", err)
	}

	prog, err := bf.Parse(string(src))
	if err != nil {
		fatalf("%v", err)
	}

	if *dumpIR {
		fmt.Print(prog.String())
		return
	}

	if *traceFile != "" {
		if err := trace.SetFile(*traceFile); err != nil {
			fatalf("trace: %v", err)
		}
		defer trace.Default.Close()
	}

	switch *mode {
	case "interpret":
		vm := &bf.Interpreter{}
		if trace.Default != nil {
			vm.Trace = trace.Default
		}
		out := bufio.NewWriter(os.Stdout)
		defer out.Flush()
		if err := vm.Run(prog, os.Stdin, out); err != nil {
			fatalf("%v", err)
		}
	case "jit":
		started := time.Now()
		artifact, err := bf.Compile(prog)
		if err != nil {
			fatalf("%v", err)
		}
		defer artifact.Close()
		if trace.Default != nil {
			// bf.Compile cannot call into package trace itself (trace
			// imports bf); the caller times and records it instead.
			trace.Default.CompileEvent(fs.Arg(0), artifact.Len(), time.Since(started))
		}
		tape := make([]byte, bf.JITTapeSize)
		if err := artifact.Run(tape); err != nil {
			fatalf("%v", err)
		}
	default:
		fatalf("unknown mode %q", *mode)
	}
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8089", "listen address")
	storeKind := fs.String("store", "none", "run record backend: none, file, mysql, postgres, s3")
	runsDir := fs.String("runs-dir", "", "file backend: directory to persist run records to")
	dsn := fs.String("dsn", "", "mysql/postgres backend: data source name")
	namespace := fs.String("namespace", "bfjit", "schema/table or object-key namespace for the run record backend")
	s3Bucket := fs.String("s3-bucket", "", "s3 backend: bucket name")
	s3Prefix := fs.String("s3-prefix", "", "s3 backend: key prefix")
	s3Region := fs.String("s3-region", "us-east-1", "s3 backend: region")
	s3Endpoint := fs.String("s3-endpoint", "", "s3 backend: custom endpoint, for S3-compatible storage")
	fs.Parse(args)

	engine, err := openStore(*storeKind, *namespace, storeOptions{
		runsDir:    *runsDir,
		dsn:        *dsn,
		s3Bucket:   *s3Bucket,
		s3Prefix:   *s3Prefix,
		s3Region:   *s3Region,
		s3Endpoint: *s3Endpoint,
	})
	if err != nil {
		fatalf("store: %v", err)
	}

	srv := server.New(*addr, engine)
	fmt.Fprintf(os.Stderr, "listening on %s\n", *addr)
	if err := srv.ListenAndServe(); err != nil {
		fatalf("%v", err)
	}
}

// storeOptions collects every backend-specific flag serveCmd accepts; which
// fields matter depends on the selected store kind.
type storeOptions struct {
	runsDir    string
	dsn        string
	s3Bucket   string
	s3Prefix   string
	s3Region   string
	s3Endpoint string
}

// openStore builds the store.Factory named by kind and opens namespace on
// it. "none" disables run record persistence entirely.
func openStore(kind, namespace string, opt storeOptions) (store.Engine, error) {
	var factory store.Factory
	switch kind {
	case "none":
		return nil, nil
	case "file":
		if opt.runsDir == "" {
			return nil, fmt.Errorf("-runs-dir is required for -store=file")
		}
		factory = &store.FileFactory{Basepath: opt.runsDir}
	case "mysql":
		if opt.dsn == "" {
			return nil, fmt.Errorf("-dsn is required for -store=mysql")
		}
		factory = &store.MySQLFactory{DSN: opt.dsn}
	case "postgres":
		if opt.dsn == "" {
			return nil, fmt.Errorf("-dsn is required for -store=postgres")
		}
		factory = &store.PostgresFactory{DSN: opt.dsn}
	case "s3":
		if opt.s3Bucket == "" {
			return nil, fmt.Errorf("-s3-bucket is required for -store=s3")
		}
		factory = &store.S3Factory{
			Region:         opt.s3Region,
			Endpoint:       opt.s3Endpoint,
			Bucket:         opt.s3Bucket,
			Prefix:         opt.s3Prefix,
			ForcePathStyle: opt.s3Endpoint != "",
		}
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
	return factory.Open(namespace)
}

func watchCmd(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bfjit watch <file.bf>")
		os.Exit(2)
	}
	stop := make(chan struct{})
	if err := watch.Watch(fs.Arg(0), watch.InterpretRun, os.Stdout, stop); err != nil {
		fatalf("%v", err)
	}
}

func debugCmd(args []string) {
	fs := flag.NewFlagSet("debug", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: bfjit debug <file.bf>")
		os.Exit(2)
	}
	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fatalf("%v", err)
	}
	session, err := debug.NewSession(string(src), os.Stdin, os.Stdout)
	if err != nil {
		fatalf("%v", err)
	}
	if err := debug.Run(session); err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "bfjit: "+format+"\n", a...)
	os.Exit(1)
}
