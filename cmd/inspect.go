package cmd

import (
	"fmt"

	"github.com/jsphweid/tablab/midi"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mid>",
	Short: "Inspects a midi file",
	Long:  `Lists the note ons of a midi file, naming drum hits after the kit.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	mf, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("time format: %v\n", mf.TimeFormat)
	fmt.Printf("tracks: %v\n", len(mf.Tracks))
	for _, hit := range midi.NoteOns(mf, midi.DefaultKit()) {
		fmt.Println(hit)
	}
	return nil
}
