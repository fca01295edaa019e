// Command cupctl is a thin demonstrator of the CLI flag contract §6 defines
// for the CUP core. It performs no business logic of its own beyond parsing
// flags into a cup.SnapshotRequest and printing the result — the CLI front
// end itself is an external collaborator (§1 "Deliberately out of scope");
// this only proves the contract is exercised by something, matching the
// teacher's cmd/cua "thin wrapper" framing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cupsnap/cup"
	"github.com/cupsnap/cup/pkg/logging"
	"github.com/cupsnap/cup/pkg/node"
	"github.com/cupsnap/cup/pkg/serialize"
)

func main() {
	var (
		scope       = flag.String("scope", "foreground", "overview|foreground|desktop|full")
		depth       = flag.Int("depth", 0, "max capture depth (0 = unlimited)")
		app         = flag.String("app", "", "filter windows by title substring")
		platformStr = flag.String("platform", "", "windows|macos|linux|web (default: host OS)")
		jsonOut     = flag.String("json-out", "", "write pruned JSON envelope to path")
		fullJSONOut = flag.String("full-json-out", "", "write unpruned JSON envelope to path")
		compactOut  = flag.String("compact-out", "", "write compact text to path ('-' for stdout)")
		verbose     = flag.Bool("verbose", false, "enable verbose logging")
		cdpPort     = flag.Int("cdp-port", 9222, "Chrome DevTools Protocol port")
		cdpHost     = flag.String("cdp-host", "127.0.0.1", "Chrome DevTools Protocol host")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: cupctl [flags]")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(snapshotFlags{
		scope:       *scope,
		depth:       *depth,
		app:         *app,
		platformStr: *platformStr,
		jsonOut:     *jsonOut,
		fullJSONOut: *fullJSONOut,
		compactOut:  *compactOut,
		verbose:     *verbose,
		cdpPort:     *cdpPort,
		cdpHost:     *cdpHost,
	}); err != nil {
		fmt.Fprintln(os.Stderr, "cupctl:", err)
		os.Exit(1)
	}
}

type snapshotFlags struct {
	scope, app, platformStr, jsonOut, fullJSONOut, compactOut, cdpHost string
	depth, cdpPort                                                     int
	verbose                                                            bool
}

func run(f snapshotFlags) error {
	opts := []cup.Option{
		cup.WithCDPHost(f.cdpHost),
		cup.WithCDPPort(f.cdpPort),
	}
	if f.verbose {
		logging.SetLevel(logging.LevelDebug)
	}
	sess := cup.NewSession(opts...)

	req := cup.SnapshotRequest{
		Scope:     node.Scope(f.scope),
		AppFilter: f.app,
		MaxDepth:  f.depth,
		Platform:  node.PlatformTag(f.platformStr),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	env, err := sess.Snapshot(ctx, req)
	if err != nil {
		return err
	}

	if f.jsonOut != "" {
		data, err := serialize.JSONIndent(env)
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.jsonOut, data, 0o644); err != nil {
			return err
		}
	}
	if f.fullJSONOut != "" {
		full := &node.Envelope{
			Version: env.Version, Platform: env.Platform, Timestamp: env.Timestamp,
			Screen: env.Screen, Scope: env.Scope, App: env.App,
			Tree: sess.UnprunedTree(), Windows: env.Windows, Tools: env.Tools,
		}
		data, err := serialize.JSONIndent(full)
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.fullJSONOut, data, 0o644); err != nil {
			return err
		}
	}
	if f.compactOut != "" {
		text := serialize.Compact(env, serialize.CompactOptions{})
		if f.compactOut == "-" {
			fmt.Println(text)
		} else if err := os.WriteFile(f.compactOut, []byte(text), 0o644); err != nil {
			return err
		}
	}
	if f.jsonOut == "" && f.fullJSONOut == "" && f.compactOut == "" {
		fmt.Println(serialize.Compact(env, serialize.CompactOptions{}))
	}
	return nil
}
