package main

import (
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/syssam/sqlgen/dialect/sql/schema"
	"github.com/syssam/sqlgen/internal/codegen"
)

func newGenCommand(a *app) *cobra.Command {
	var pkg, out string

	cmd := &cobra.Command{
		Use:   "gen <file>...",
		Short: "Generate Go models from table definitions",
		Long: "Generate a Go file with a struct, table name and column constants for\n" +
			"every create_table statement of the documents.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.load(args)
			if err != nil {
				return err
			}
			var tables []*schema.Table
			for _, doc := range docs {
				tables = append(tables, doc.Tables()...)
			}
			name := "models.go"
			if out != "" {
				name = filepath.Base(out)
			}
			src, err := codegen.Generate(pkg, name, tables)
			if err != nil {
				return err
			}
			if out == "" {
				_, err := cmd.OutOrStdout().Write(src)
				return err
			}
			if err := a.fs.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := afero.WriteFile(a.fs, out, src, 0o644); err != nil {
				return err
			}
			a.logger.Info("wrote", "file", out, "tables", len(tables))
			return nil
		},
	}

	cmd.Flags().StringVarP(&pkg, "package", "p", "models", "package name of the generated file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
