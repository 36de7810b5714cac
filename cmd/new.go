package cmd

import (
	"fmt"

	"github.com/jsphweid/tablab/model"
	"github.com/jsphweid/tablab/score"
	"github.com/spf13/cobra"
)

var (
	newRequest model.NewScoreRequest
	newDemo    bool
)

func init() {
	rootCmd.AddCommand(newCmd)
	f := newCmd.Flags()
	f.StringVar(&newRequest.Author, "author", "", "author")
	f.IntVar(&newRequest.Pitch, "pitch", 0, "beats per bar (default 4)")
	f.IntVar(&newRequest.NoteValue, "note-value", 0, "note value of one beat (default 4)")
	f.Float64Var(&newRequest.Tempo, "tempo", 0, "beats per minute (default 120)")
	f.StringVar(&newRequest.BeatStructure, "beat", "", "default beat structure, e.g. EIGHTH_NOTE//EIGHTH_NOTE")
	f.StringSliceVar(&newRequest.Lines, "lines", nil, "lines, e.g. Hit-hat,Snare,Bass")
	f.IntVar(&newRequest.Bars, "bars", 1, "empty bars to start with")
	f.BoolVar(&newDemo, "demo", false, "fill the bars with a basic rock beat")
}

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Creates a score",
	Long:  `Creates an empty score and prints its id.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		newRequest.Title = args[0]
		s, err := createScore(newRequest)
		if err != nil {
			return err
		}
		if newDemo {
			if err := rockBeat(s); err != nil {
				return err
			}
		}
		_, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(s); err != nil {
			return err
		}
		fmt.Println(s.ID)
		return nil
	},
}

func createScore(req model.NewScoreRequest) (*score.Score, error) {
	settings, err := req.Settings()
	if err != nil {
		return nil, err
	}
	s, err := score.New(req.Title, req.Author, settings)
	if err != nil {
		return nil, err
	}
	for i := 0; i < req.Bars; i++ {
		if err := s.AppendBar(s.NewBar()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// rockBeat puts the hit-hat on every beat, the bass on odd beats and the
// snare on even ones. Lines the score lacks are left out.
func rockBeat(s *score.Score) error {
	for _, b := range s.Bars() {
		for beat := 1; beat <= b.Beats(); beat++ {
			hits := []string{"Hit-hat", "Bass"}
			if beat%2 == 0 {
				hits[1] = "Snare"
			}
			for _, line := range hits {
				if err := b.AddNote(line, beat, 1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
