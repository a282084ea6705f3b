package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"croakbox/internal/game"
	"croakbox/internal/library"
	"croakbox/internal/playback"
	"croakbox/pkg/voicepool"

	"github.com/chzyer/readline"
)

const (
	version_minor = 0
	version_major = 1
	app_name      = "CBX-Pond"
)

func main() {
	rows := flag.Int("rows", game.DefaultSize, "board rows (odd)")
	cols := flag.Int("cols", game.DefaultSize, "board cols (odd)")
	soundDir := flag.String("sounds", "", "folder of .wav files to load")
	bankPath := flag.String("bank", "", ".crkb sound bank to load")
	capacity := flag.Int("capacity", voicepool.DefaultCapacity, "voice pool capacity")
	silent := flag.Bool("silent", false, "run without the speaker")
	flag.Parse()

	fmt.Printf("\n%s version %d.%d\n", app_name, version_major, version_minor)

	lib := library.New()
	if *soundDir != "" {
		n, err := lib.LoadDir(*soundDir)
		if err != nil {
			fmt.Printf("[!] Gagal baca folder suara: %v\n", err)
		} else {
			fmt.Printf(" >> Loaded %d sounds from %s\n", n, *soundDir)
		}
	}
	if *bankPath != "" {
		n, err := lib.LoadBank(*bankPath)
		if err != nil {
			fmt.Printf("[!] Gagal buka bank: %v\n", err)
		} else {
			fmt.Printf(" >> Loaded %d sounds from %s\n", n, *bankPath)
		}
	}
	library.RegisterDefaults(lib)

	var backend voicepool.Backend
	if *silent {
		backend = playback.SilentBackend{}
	} else {
		engine, err := playback.DefaultEngine()
		if err != nil {
			fmt.Printf("[!] Speaker init failed (%v), continuing silent\n", err)
			backend = playback.SilentBackend{}
		} else {
			backend = engine
			defer engine.Shutdown()
		}
	}

	cfg := voicepool.DefaultConfig()
	cfg.Capacity = *capacity
	pool := voicepool.New(backend, lib, cfg)

	runPond(pool, game.New(*rows, *cols))
}

func runPond(pool *voicepool.Pool, board *game.Board) {
	rl, err := readline.NewEx(&readline.Config{Prompt: "pond> "})
	if err != nil {
		fmt.Printf("[!] Terminal error: %v\n", err)
		return
	}
	defer rl.Close()

	pool.Play(library.SoundMusic, true)

	fmt.Println("Get the toads to the top-left and the frogs to the bottom-right.")
	fmt.Println("Type 'help' for commands.")
	fmt.Print(board)

	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "move", "m":
			doMove(pool, board, fields[1:])
			if finished(pool, board, rl) {
				return
			}
		case "undo", "u":
			if board.Undo() {
				pool.Play(library.SoundUndo, false)
				fmt.Print(board)
			} else {
				pool.Play(library.SoundInvalid, false)
				fmt.Println("[!] Nothing to undo")
			}
		case "moves":
			for _, p := range board.LegalMoves() {
				fmt.Printf(" >> %d %d\n", p.Row, p.Col)
			}
		case "music":
			pool.SetMusicMuted(!pool.MusicMuted())
			fmt.Printf(" >> Music muted: %v\n", pool.MusicMuted())
		case "sfx":
			pool.SetEffectsMuted(!pool.EffectsMuted())
			fmt.Printf(" >> Effects muted: %v\n", pool.EffectsMuted())
		case "suspend":
			pool.Suspend()
			fmt.Println(" >> Suspended")
		case "resume":
			pool.Resume()
			fmt.Println(" >> Resumed")
		case "status":
			fmt.Printf(" >> Voices: %d/%d | Music muted: %v | Effects muted: %v | Moves: %d\n",
				pool.ActiveCount(), pool.Capacity(), pool.MusicMuted(), pool.EffectsMuted(), board.MovesMade())
		case "board", "b":
			fmt.Print(board)
		case "help", "h":
			printHelp()
		case "quit", "q", "exit":
			pool.ReleaseAll()
			return
		default:
			fmt.Printf("[!] Unknown command: %s\n", fields[0])
		}
	}
	pool.ReleaseAll()
}

func doMove(pool *voicepool.Pool, board *game.Board, args []string) {
	if len(args) != 2 {
		fmt.Println("[!] Usage: move <row> <col>")
		return
	}
	row, err1 := strconv.Atoi(args[0])
	col, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Println("[!] Usage: move <row> <col>")
		return
	}

	wasFrog := board.FrogAt(row, col)
	if !board.Move(row, col) {
		pool.Play(library.SoundInvalid, false)
		fmt.Println("[!] Illegal move")
		return
	}
	if wasFrog {
		pool.Play(library.SoundFrogJump, false)
	} else {
		pool.Play(library.SoundToadJump, false)
	}
	fmt.Print(board)
}

// finished plays the ending sound and reports whether the game is over.
// The ending voice is released after the player acknowledges, matching
// the slot handoff the pool promises for one-shots.
func finished(pool *voicepool.Pool, board *game.Board, rl *readline.Instance) bool {
	var slot voicepool.Slot
	switch {
	case board.Won():
		fmt.Printf("\n[SUCCESS] The pond is sorted in %d moves!\n", board.MovesMade())
		slot, _ = pool.Play(library.SoundWin, false)
	case board.Lost():
		fmt.Println("\n[FAIL] No legal moves left. The pond is stuck.")
		slot, _ = pool.Play(library.SoundLose, false)
	default:
		return false
	}

	rl.SetPrompt("press enter to leave the pond: ")
	rl.Readline()
	pool.Release(slot)
	pool.ReleaseAll()
	return true
}

func printHelp() {
	fmt.Println(" move <row> <col>  hop the piece at row/col into the empty cell")
	fmt.Println(" undo              take back the last move")
	fmt.Println(" moves             list every legal move")
	fmt.Println(" music             toggle background music")
	fmt.Println(" sfx               toggle jump and feedback sounds")
	fmt.Println(" suspend           stop all voices, remember music positions")
	fmt.Println(" resume            restart remembered music where it left off")
	fmt.Println(" status            pool and game counters")
	fmt.Println(" board             reprint the board")
	fmt.Println(" quit              leave the pond")
}
