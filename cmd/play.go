package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/tablab/chord"
	"github.com/jsphweid/tablab/db"
	"github.com/jsphweid/tablab/midi"
	"github.com/jsphweid/tablab/player"
	"github.com/jsphweid/tablab/score"
	"github.com/spf13/cobra"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
)

var (
	playFrom  int
	playBars  int
	playWatch bool
	playOut   string
)

func init() {
	rootCmd.AddCommand(playCmd)
	f := playCmd.Flags()
	f.IntVar(&playFrom, "from", 1, "first bar to play")
	f.IntVar(&playBars, "bars", 0, "number of bars to play, 0 for all")
	f.BoolVar(&playWatch, "watch", false, "restart whenever the score is saved")
	f.StringVar(&playOut, "out", "", `midi output port, "none" to only print even when TABLAB_MIDI_OUT is set`)
}

var playCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Plays a score",
	Long:  `Plays a score in real time, printing every slot reached and sending the hits to a midi output.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		out := playOut
		if out == "" {
			out = cfg.MidiOut
		}
		var send midi.Sender
		if out != "" && out != "none" {
			defer midi.CloseDriver()
			if send, err = midi.OpenOutput(out); err != nil {
				logger.Printf("no midi output, printing only: %v", err)
			}
		}

		pl := &playback{player: player.New(logger), send: send}
		if err := pl.load(store, args[0]); err != nil {
			return err
		}

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)

		if !playWatch {
			select {
			case <-pl.player.Done():
			case <-interrupt:
				pl.player.Stop()
				pl.player.Wait()
			}
			return nil
		}

		watcher, err := watchFile(cfg.DBPath, time.Second/3, func() {
			if err := pl.load(store, args[0]); err != nil {
				logger.Printf("reload failed: %v", err)
			}
		})
		if err != nil {
			return err
		}
		defer watcher.Close()

		<-interrupt
		pl.player.Stop()
		pl.player.Wait()
		return nil
	},
}

type playback struct {
	mu        sync.Mutex
	player    *player.Player
	send      midi.Sender
	listeners []player.Listener
}

// load (re)starts playback of the stored score.
func (pl *playback) load(store db.ScoreStore, id string) error {
	s, err := loadScore(store, id)
	if err != nil {
		return err
	}
	s, err = excerpt(s, playFrom, playBars)
	if err != nil {
		return err
	}

	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.player.Stop()
	pl.player.Wait()
	for _, l := range pl.listeners {
		pl.player.RemoveListener(l)
	}
	pl.listeners = []player.Listener{printer(s)}
	if pl.send != nil {
		pl.listeners = append(pl.listeners, midi.NewOutput(s, midi.DefaultKit(), pl.send, logger))
	}
	for _, l := range pl.listeners {
		pl.player.AddListener(l)
	}
	return pl.player.Play(s)
}

func printer(s *score.Score) player.Listener {
	return &player.Callbacks{
		Start: func() {
			fmt.Printf("%s by %s, %v bpm\n", s.Title, s.Author, s.Settings().Tempo)
		},
		NextNote: func(bar, beat, slot int) {
			b, err := s.Bar(bar)
			if err != nil {
				return
			}
			lines, _ := chord.At(b, beat, slot)
			fmt.Printf("%3d.%d.%-2d %s\n", bar, beat, slot, strings.Join(lines, " "))
		},
		Pause:  func() { fmt.Println("paused") },
		Resume: func() { fmt.Println("resumed") },
		Finish: func() { fmt.Println("done") },
	}
}

// watchFile calls onChange, debounced, when path or its sqlite journal
// changes.
func watchFile(path string, wait time.Duration, onChange func()) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// sqlite replaces and journals the file, so watch the directory
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}
	logger.Printf("watching %s", path)

	debounced := debounce.New(wait)
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.HasPrefix(event.Name, path) || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				debounced(onChange)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Printf("watcher error: %v", err)
			}
		}
	}()
	return watcher, nil
}
