package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"croakbox/internal/library"
	"croakbox/internal/playback"
	"croakbox/pkg/voicepool"
)

func main() {
	soundDir := flag.String("sounds", "", "folder of .wav files to load")
	bankPath := flag.String("bank", "", ".crkb sound bank to load")
	loop := flag.Bool("loop", false, "loop the sound (stop with ctrl-c)")
	timeout := flag.Duration("timeout", 5*time.Minute, "give up after this long")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: cbx-audition [-sounds DIR] [-bank FILE.crkb] <name>")
		fmt.Println("Without -sounds or -bank, only the built-in sounds are available.")
		os.Exit(2)
	}
	name := flag.Arg(0)

	lib := library.New()
	if *soundDir != "" {
		if _, err := lib.LoadDir(*soundDir); err != nil {
			fmt.Printf("[FAIL] Gagal baca folder suara: %v\n", err)
			os.Exit(1)
		}
	}
	if *bankPath != "" {
		if _, err := lib.LoadBank(*bankPath); err != nil {
			fmt.Printf("[FAIL] Gagal buka bank: %v\n", err)
			os.Exit(1)
		}
	}
	library.RegisterDefaults(lib)

	h, ok := lib.Resolve(name)
	if !ok {
		fmt.Printf("[FAIL] Unknown sound: %s\n", name)
		fmt.Println("Available:")
		for _, n := range lib.Names() {
			fmt.Printf("  %s\n", n)
		}
		os.Exit(1)
	}

	engine, err := playback.DefaultEngine()
	if err != nil {
		fmt.Printf("[FAIL] Speaker init: %v\n", err)
		os.Exit(1)
	}
	defer engine.Shutdown()

	done := make(chan error, 1)
	sess, err := engine.NewSession(h, func(ev voicepool.Event, err error) {
		if ev == voicepool.EventError {
			done <- err
			return
		}
		done <- nil
	})
	if err != nil {
		fmt.Printf("[FAIL] Session: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	sess.SetLooping(*loop)
	fmt.Printf("[START] Auditioning: %s\n", name)
	sess.Start()

	select {
	case err := <-done:
		if err != nil {
			fmt.Printf("[FAIL] Playback: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("[SUCCESS] Done after %s\n", sess.Position().Round(time.Millisecond))
	case <-time.After(*timeout):
		fmt.Println("[!] Timeout, stopping")
		sess.Stop()
	}
}
