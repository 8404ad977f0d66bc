package main

import (
	"fmt"

	"github.com/loykin/qexport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file.csv>",
	Short: "Strip vendor validation annotations from a CSV header row",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := viper.GetViper()
		// Cleaning is offline; the config is loaded only for the logging setup.
		if _, err := loadConfig(); err != nil {
			return err
		}
		opts := qexport.CleanOptions{DropMetadataRows: v.GetBool("clean_drop_metadata_rows")}
		out := v.GetString("clean_out")
		if err := qexport.CleanCSV(args[0], out, opts); err != nil {
			return err
		}
		target := out
		if target == "" {
			target = args[0]
		}
		fmt.Printf("cleaned %s\n", target)
		return nil
	},
}

func init() {
	v := viper.GetViper()
	v.SetDefault("clean_out", "")
	v.SetDefault("clean_drop_metadata_rows", false)

	cleanCmd.Flags().String("out", v.GetString("clean_out"), "write the cleaned CSV to this path instead of in place")
	cleanCmd.Flags().Bool("drop-metadata-rows", v.GetBool("clean_drop_metadata_rows"), "also drop the vendor question-text and ImportId rows")

	_ = v.BindPFlag("clean_out", cleanCmd.Flags().Lookup("out"))
	_ = v.BindPFlag("clean_drop_metadata_rows", cleanCmd.Flags().Lookup("drop-metadata-rows"))
}
