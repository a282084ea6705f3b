package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"croakbox/internal/bank"
	"croakbox/internal/codec"
	"croakbox/internal/security"
	"croakbox/pkg/spec"

	"github.com/chzyer/readline"
)

const (
	version_minor = 0
	version_major = 1
	app_name      = "CBX-Bankmaker"
)

func main() {
	wavDir, destFolder, title, author, comment, password := runBankmakerInterview()

	wavs, err := scanWavDir(wavDir)
	if err != nil {
		fmt.Printf("[FAIL] Gagal baca folder WAV: %v\n", err)
		return
	}
	if len(wavs) == 0 {
		fmt.Printf("[FAIL] Tidak ada file .wav di %s\n", wavDir)
		return
	}

	var audioKey []byte
	if password != "" {
		audioKey = security.DeriveKey(password, []byte(spec.Salt))
	}

	safeTitle := strings.ReplaceAll(title, " ", "_")
	finalPath := filepath.Join(destFolder, safeTitle+".crkb")

	f, err := os.Create(finalPath)
	if err != nil {
		fmt.Printf("[FAIL] Gagal buat file: %v\n", err)
		return
	}
	defer f.Close()

	fmt.Printf("\n[START] FORGING: %s\n", title)

	w, err := bank.NewWriter(f, bank.Meta{
		Title:   title,
		Author:  author,
		Comment: comment,
	}, audioKey)
	if err != nil {
		fmt.Printf("[FAIL] Header: %v\n", err)
		return
	}

	seen := map[string]string{}
	for i, wavPath := range wavs {
		name := strings.TrimSuffix(filepath.Base(wavPath), filepath.Ext(wavPath))
		fmt.Printf(" [%d/%d] Processing: %s\n", i+1, len(wavs), name)

		frames, dur, err := codec.EncodeWAV(wavPath)
		if err != nil {
			fmt.Printf("   [!] Skip %s: %v\n", name, err)
			continue
		}

		pcm, err := codec.DecodeFrames(frames)
		if err != nil {
			fmt.Printf("   [!] Skip %s: %v\n", name, err)
			continue
		}
		fp := codec.Fingerprint(pcm)
		if prev, ok := seen[fp]; ok {
			fmt.Printf("   [!] Duplicate audio: %s matches %s\n", name, prev)
		}
		seen[fp] = name

		if err := w.Add(name, filepath.Base(wavPath), frames, dur, fp); err != nil {
			fmt.Printf("[FAIL] Tulis %s: %v\n", name, err)
			return
		}
		fmt.Printf(" >> Sealed %s (%.2fs, peak %.2f)\n", name, dur, codec.PeakLevel(pcm))
	}

	if len(w.Entries()) == 0 {
		fmt.Println("[FAIL] Tidak ada track yang berhasil di-encode")
		return
	}

	if err := w.Finalize(); err != nil {
		fmt.Printf("[FAIL] Sealing: %v\n", err)
		return
	}
	fmt.Println(" >> Metadata TTOC Sealed Successfully.")
	f.Sync()

	if password != "" {
		if err := security.CreateKeyLocker(finalPath, password); err != nil {
			fmt.Printf("[!] Gagal buat key locker: %v\n", err)
		} else {
			fmt.Printf(" >> Key Locker: %s\n", security.LockerPath(finalPath))
		}
	}

	fmt.Printf("\n[SUCCESS] Bank Forged: %s (%d sounds)\n", finalPath, len(w.Entries()))
}

func scanWavDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var wavs []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".wav") {
			wavs = append(wavs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(wavs)
	return wavs, nil
}

func runBankmakerInterview() (string, string, string, string, string, string) {
	rl, _ := readline.NewEx(&readline.Config{Prompt: ">> "})
	defer rl.Close()

	fmt.Printf("\n%s version %d.%d\n", app_name, version_major, version_minor)
	d := ask(rl, "1. WAV Source Folder", ".")
	o := ask(rl, "2. Destination Folder (must exist)", ".")
	t := ask(rl, "3. Bank Title", "pond-sounds")
	a := ask(rl, "4. Author", "")
	c := ask(rl, "5. Comment", "")
	p := ask(rl, "6. Password (empty = unlocked bank)", "")

	return d, o, t, a, c, p
}

func ask(rl *readline.Instance, prompt, def string) string {
	rl.SetPrompt(fmt.Sprintf("%s [%s]: ", prompt, def))
	line, _ := rl.Readline()
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}
