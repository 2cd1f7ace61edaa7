// seed_catalog genera una migración SQL con el catálogo inicial a partir de un CSV
// exportado desde una planilla (UTF-8 o ISO-8859-1).
//
// Uso: go run ./cmd/seed_catalog --input productos.csv [--delimiter ';'] [--encoding latin1]
// Escribe internal/infrastructure/postgres/migrations/<version>_seed_catalog.{up,down}.sql
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

type options struct {
	input     string
	outDir    string
	version   int
	delimiter string
	encoding  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "seed_catalog",
		Short: "Genera la migración SQL del catálogo inicial desde un CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
		SilenceUsage: true,
	}
	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "productos.csv", "CSV de productos (cabecera: nombre, precio, stock, categoria, ...)")
	f.StringVarP(&opts.outDir, "out-dir", "o", "", "directorio de migraciones (por defecto el del módulo)")
	f.IntVar(&opts.version, "version", 4, "número de versión de la migración")
	f.StringVarP(&opts.delimiter, "delimiter", "d", ",", "separador de columnas")
	f.StringVarP(&opts.encoding, "encoding", "e", encodingAuto, "auto | utf-8 | latin1")
	return cmd
}

func run(cmd *cobra.Command, opts options) error {
	if utf8.RuneCountInString(opts.delimiter) != 1 {
		return fmt.Errorf("el separador debe ser un solo carácter: %q", opts.delimiter)
	}
	delim, _ := utf8.DecodeRuneInString(opts.delimiter)

	raw, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("abrir CSV: %w", err)
	}
	r, err := decodeInput(raw, opts.encoding)
	if err != nil {
		return err
	}
	products, err := parseCatalog(r, delim)
	if err != nil {
		return err
	}

	dir := opts.outDir
	if dir == "" {
		dir = filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations")
	}
	base := filepath.Join(dir, fmt.Sprintf("%06d_seed_catalog", opts.version))

	var up, down bytes.Buffer
	if err := writeSeedUp(&up, products, filepath.Base(opts.input)); err != nil {
		return err
	}
	if err := writeSeedDown(&down, products); err != nil {
		return err
	}
	if err := os.WriteFile(base+".up.sql", up.Bytes(), 0o644); err != nil {
		return fmt.Errorf("escribir migración: %w", err)
	}
	if err := os.WriteFile(base+".down.sql", down.Bytes(), 0o644); err != nil {
		return fmt.Errorf("escribir migración: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Generado %s.{up,down}.sql: %d productos\n", base, len(products))
	return nil
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
