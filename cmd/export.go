package cmd

import (
	"fmt"
	"os"

	"github.com/jsphweid/tablab/midi"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export <id> [file.mid]",
	Short: "Exports a score to midi",
	Long:  `Writes a score as a Standard MIDI File on the General MIDI drum channel.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		s, err := loadScore(store, args[0])
		if err != nil {
			return err
		}

		kit := midi.DefaultKit()
		for _, line := range midi.Unmapped(s, kit) {
			logger.Printf("line %q has no drum key, skipped", line)
		}

		path := s.ID.String() + ".mid"
		if len(args) == 2 {
			path = args[1]
		}
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, "creating midi file")
		}
		defer f.Close()
		if err := midi.Write(f, s, kit); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}
