// Package termsnap turns the cell grid of a terminal screen into JSON snapshots.
//
// A snapshot is a list of rows. Each row is a list of runs: maximal stretches of
// adjacent cells sharing one visual attribute, encoded as a two element array of
// text and attribute object:
//
//	[[["hi ",{"fg":1,"bold":true}],["there",{}]]]
//
// # Engines
//
// The screen itself lives behind the [Engine] interface. The screen package provides
// the default implementation, a VT emulator driven by go-ansicode:
//
//	scr, err := screen.Open(82, 21)
//	if err != nil {
//	    return err
//	}
//	defer scr.Close()
//
//	scr.WriteString("\x1b[31mHello\x1b[0m")
//	snap, err := termsnap.Capture(scr, termsnap.Codec{})
//
// # Colors
//
// Engines report colors as raw codes: 0-15 are palette entries, 16 and 17 mean the
// default foreground and background, and -1 means an RGB value follows. [Resolve]
// maps RGB values onto the xterm 6x6x6 cube (palette 16-231) or the grayscale ramp
// (232-255). An RGB value that falls between cube levels is a [ColorResolutionError]
// under [PolicyExact] and snaps to the nearest level under [PolicyNearest].
//
// # Command loop
//
// [Loop] serves snapshots over a byte stream. It reads framed feed, print and cursor
// commands and writes one JSON line per query:
//
//	loop := termsnap.NewLoop(scr, os.Stdin, os.Stdout, termsnap.WithLogger(logger))
//	if err := loop.Run(); err != nil {
//	    return err
//	}
package termsnap
