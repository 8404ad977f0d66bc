package main

import (
	"context"
	"fmt"

	"github.com/loykin/qexport"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one survey's responses to a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context())
	},
}

func init() {
	v := viper.GetViper()
	v.SetDefault("survey", "")
	v.SetDefault("name", "")
	v.SetDefault("out", "")
	v.SetDefault("timeout", "")
	v.SetDefault("interval", "")
	v.SetDefault("keep_annotations", false)
	v.SetDefault("drop_metadata_rows", false)

	exportCmd.Flags().String("survey", v.GetString("survey"), "survey id to export (e.g. SV_abc123)")
	exportCmd.Flags().String("name", v.GetString("name"), "survey name to export (case-insensitive match)")
	exportCmd.Flags().String("out", v.GetString("out"), "output CSV path (default derived from the survey name)")
	exportCmd.Flags().String("timeout", v.GetString("timeout"), "maximum time to wait for the export job (e.g. 5m)")
	exportCmd.Flags().String("interval", v.GetString("interval"), "poll interval for export progress (e.g. 5s)")
	exportCmd.Flags().Bool("keep-annotations", v.GetBool("keep_annotations"), "keep vendor validation annotations in the header row")
	exportCmd.Flags().Bool("drop-metadata-rows", v.GetBool("drop_metadata_rows"), "also drop the vendor question-text and ImportId rows")

	_ = v.BindPFlag("survey", exportCmd.Flags().Lookup("survey"))
	_ = v.BindPFlag("name", exportCmd.Flags().Lookup("name"))
	_ = v.BindPFlag("out", exportCmd.Flags().Lookup("out"))
	_ = v.BindPFlag("timeout", exportCmd.Flags().Lookup("timeout"))
	_ = v.BindPFlag("interval", exportCmd.Flags().Lookup("interval"))
	_ = v.BindPFlag("keep_annotations", exportCmd.Flags().Lookup("keep-annotations"))
	_ = v.BindPFlag("drop_metadata_rows", exportCmd.Flags().Lookup("drop-metadata-rows"))
}

func runExport(ctx context.Context) error {
	v := viper.GetViper()
	surveyID := v.GetString("survey")
	name := v.GetString("name")
	if surveyID == "" && name == "" {
		return fmt.Errorf("either --survey or --name is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if s := v.GetString("timeout"); s != "" {
		cfg.Export.Timeout = s
	}
	if s := v.GetString("interval"); s != "" {
		cfg.Export.Interval = s
	}

	exp, err := qexport.New(cfg)
	if err != nil {
		return err
	}

	survey := qexport.Survey{ID: surveyID}
	if surveyID == "" {
		if survey, err = exp.FindSurveyByName(ctx, name); err != nil {
			return err
		}
	}

	out := v.GetString("out")
	if out == "" {
		out = qexport.DefaultOutputName(survey)
	}

	if err := exp.ExportByID(ctx, survey.ID, out); err != nil {
		return err
	}

	if !v.GetBool("keep_annotations") {
		opts := qexport.CleanOptions{DropMetadataRows: v.GetBool("drop_metadata_rows")}
		if err := qexport.CleanCSV(out, "", opts); err != nil {
			return err
		}
	}

	fmt.Printf("exported %s to %s\n", survey.ID, out)
	return nil
}
