package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/sqlgen/dialect/sql/schema"
	"github.com/syssam/sqlgen/internal/render"
)

func newCheckCommand(a *app) *cobra.Command {
	var (
		dropColumn, dropTable, dropIndex, nullToNotNull bool
	)

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Validate documents",
		Long: "Decode and compile every document, then check the table statements\n" +
			"for invalid definitions and breaking changes. Breaking changes are\n" +
			"errors unless allowed by a flag.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.load(args)
			if err != nil {
				return err
			}
			var tables []*schema.Table
			for _, doc := range docs {
				if _, err := render.Compile(doc, a.dialectOf(doc), false); err != nil {
					return fmt.Errorf("%s: %w", doc.Path, err)
				}
				tables = append(tables, doc.Tables()...)
			}

			var opts []schema.ValidateOption
			if dropColumn {
				opts = append(opts, schema.AllowDropColumn())
			}
			if dropTable {
				opts = append(opts, schema.AllowDropTable())
			}
			if dropIndex {
				opts = append(opts, schema.AllowDropIndex())
			}
			if nullToNotNull {
				opts = append(opts, schema.AllowNullToNotNull())
			}
			res := schema.ValidateAll(tables, opts...)
			printResult(cmd, res)
			if res.HasErrors() {
				return fmt.Errorf("%d validation error(s)", len(res.Errors))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&dropColumn, "allow-drop-column", false, "allow dropping columns")
	f.BoolVar(&dropTable, "allow-drop-table", false, "allow dropping tables")
	f.BoolVar(&dropIndex, "allow-drop-index", false, "allow dropping indexes and constraints")
	f.BoolVar(&nullToNotNull, "allow-null-to-not-null", false, "allow making nullable columns NOT NULL")
	return cmd
}

func printResult(cmd *cobra.Command, res *schema.ValidationResult) {
	var (
		out      = cmd.OutOrStdout()
		errTitle = color.New(color.FgRed, color.Bold)
		warnings = color.New(color.FgYellow, color.Bold)
		ok       = color.New(color.FgGreen)
		breaking = color.New(color.Bold)
	)
	line := func(c *color.Color, label string, e *schema.ValidationError) {
		c.Fprintf(out, "%s: ", label)
		fmt.Fprint(out, e.Error())
		if e.Breaking {
			breaking.Fprint(out, " [BREAKING]")
		}
		fmt.Fprintln(out)
	}
	for _, e := range res.Errors {
		line(errTitle, "error", e)
	}
	for _, w := range res.Warnings {
		line(warnings, "warning", w)
	}
	if !res.HasErrors() && !res.HasWarnings() {
		ok.Fprintln(out, "No issues found")
	}
}
