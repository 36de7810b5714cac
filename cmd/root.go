package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var logger = log.New(os.Stdout, "[tablab] ", log.LstdFlags)

var rootCmd = &cobra.Command{
	Use:   "tablab",
	Short: "Percussion tabs",
	Long:  `Write percussion tabs, play them back in real time and export them to midi.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
