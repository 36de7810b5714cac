package cmd

import (
	"fmt"

	"github.com/jsphweid/tablab/chord"
	"github.com/jsphweid/tablab/midi"
	"github.com/jsphweid/tablab/player"
	"github.com/jsphweid/tablab/score"
	"github.com/jsphweid/tablab/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [id]",
	Short: "Creates a report",
	Long:  `Lists the stored scores, or describes one score in detail.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 0 {
			list, err := store.List()
			if err != nil {
				return err
			}
			for _, s := range list {
				fmt.Printf("%v  %-30s %-20s %3d bars  %v\n", s.ID, s.Title, s.Author, s.Bars, s.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		}

		s, err := loadScore(store, args[0])
		if err != nil {
			return err
		}
		r, err := analyze(s)
		if err != nil {
			return err
		}
		r.print()
		return nil
	},
}

type scoreReport struct {
	title        string
	bars         int
	slots        int
	overrides    int
	notesPerLine map[string]int
	lost         []string
	broken       []string // bar.beat of structures that do not fill their beat
	chords       []chord.Count
	length       string
}

func analyze(s *score.Score) (scoreReport, error) {
	r := scoreReport{
		title:        s.Title,
		bars:         s.Len(),
		notesPerLine: make(map[string]int),
		lost:         midi.Unmapped(s, midi.DefaultKit()),
	}
	for i, b := range s.Bars() {
		for beat := 1; beat <= b.Beats(); beat++ {
			bs, err := b.BeatStructure(beat)
			if err != nil {
				return r, err
			}
			r.slots += bs.Size()
			if !bs.CheckIntegrity(s.Settings().NoteValue) {
				r.broken = append(r.broken, fmt.Sprintf("%d.%d", i+1, beat))
			}
			if special, _ := b.HasSpecialBeatStructure(beat); special {
				r.overrides++
			}
			if special, _ := b.HasSpecialLineStructure(beat); special {
				r.overrides++
			}
			lines, _ := b.Lines(beat)
			for _, line := range lines {
				set, _ := b.Notes(line, beat)
				r.notesPerLine[line] += set.Count()
			}
		}
	}
	var err error
	if r.chords, err = chord.Histogram(s); err != nil {
		return r, err
	}
	r.length = player.Length(player.Flatten(s)).String()
	return r, nil
}

func (r scoreReport) print() {
	fmt.Printf("title: %v\n", r.title)
	fmt.Printf("bars: %v\n", r.bars)
	fmt.Printf("slots: %v\n", r.slots)
	fmt.Printf("overridden structures: %v\n", r.overrides)
	fmt.Printf("length: %v\n", r.length)
	var counts []int
	for _, line := range util.SortedKeys(r.notesPerLine) {
		fmt.Printf("notes on %v: %v\n", line, r.notesPerLine[line])
		counts = append(counts, r.notesPerLine[line])
	}
	fmt.Printf("notes: %v\n", util.Sum(counts))
	if len(r.broken) > 0 {
		fmt.Printf("beats whose structure does not add up: %v\n", r.broken)
	}
	if len(r.lost) > 0 {
		fmt.Printf("lines without a midi key: %v\n", r.lost)
	}
	for i, c := range r.chords {
		if i == 5 {
			break
		}
		fmt.Printf("chord %v: %v times\n", c.Key, c.Times)
	}
}
