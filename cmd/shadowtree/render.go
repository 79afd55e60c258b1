package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func renderCmd() *cobra.Command {
	var (
		file     string
		selector string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Parse a document and print its normalized serialization",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(file)
			if err != nil {
				return err
			}
			if selector == "" {
				fmt.Fprintln(cmd.OutOrStdout(), doc.HTML())
				return nil
			}
			n, err := doc.Query(selector)
			if err != nil {
				return err
			}
			if n == nil {
				return fmt.Errorf("selector %q matched nothing", selector)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n.OuterHTML())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "HTML file to render (default: built-in sample)")
	cmd.Flags().StringVar(&selector, "selector", "", "print only the first match instead of the whole document")
	return cmd
}
