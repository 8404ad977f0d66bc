package main

import (
	"fmt"

	"github.com/loykin/qexport"
	"github.com/spf13/cobra"
)

var surveysCmd = &cobra.Command{
	Use:   "surveys",
	Short: "List surveys visible to the authenticated account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		exp, err := qexport.New(cfg)
		if err != nil {
			return err
		}
		surveys, err := exp.Surveys(cmd.Context())
		if err != nil {
			return err
		}
		if len(surveys) == 0 {
			fmt.Println("no surveys found")
			return nil
		}
		for _, s := range surveys {
			fmt.Printf("%-20s %s\n", s.ID, s.Name)
		}
		return nil
	},
}
