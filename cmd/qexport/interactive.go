package main

import (
	"context"
	"fmt"

	"github.com/loykin/qexport"
	"github.com/loykin/qexport/internal/prompt"
)

// runInteractive lists surveys, prompts for a selection and exports the
// chosen survey to the current directory.
func runInteractive(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	exp, err := qexport.New(cfg)
	if err != nil {
		return err
	}
	return interactiveExport(ctx, exp, prompt.NewInteractive())
}

// interactiveExport drives the picker flow against any Prompt implementation.
func interactiveExport(ctx context.Context, exp *qexport.Exporter, p prompt.Prompt) error {
	surveys, err := exp.Surveys(ctx)
	if err != nil {
		return err
	}
	if len(surveys) == 0 {
		fmt.Println("no surveys found for this account")
		return nil
	}

	options := make([]string, len(surveys))
	for i, s := range surveys {
		options[i] = fmt.Sprintf("%s (%s)", s.Name, s.ID)
	}
	idx, err := p.Select("Select a survey to export", options)
	if err != nil {
		return err
	}
	selected := surveys[idx]

	out, err := p.Input("Output file name", qexport.DefaultOutputName(selected))
	if err != nil {
		return err
	}

	clean, err := p.Confirm("Strip validation annotations from the header row?", true)
	if err != nil {
		return err
	}

	if err := exp.ExportByID(ctx, selected.ID, out); err != nil {
		return err
	}
	if clean {
		if err := qexport.CleanCSV(out, "", qexport.CleanOptions{}); err != nil {
			return err
		}
	}

	fmt.Printf("exported %q to %s\n", selected.Name, out)
	return nil
}
