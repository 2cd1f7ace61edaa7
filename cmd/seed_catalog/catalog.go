package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Codificaciones de entrada aceptadas.
const (
	encodingAuto   = "auto"
	encodingUTF8   = "utf-8"
	encodingLatin1 = "latin1"
)

// seedProduct fila del CSV ya normalizada.
type seedProduct struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	Stock       *int
	SKU         string
	Image       string
}

// columnas reconocidas en la cabecera (sin distinguir mayúsculas ni tildes).
var columnAliases = map[string]string{
	"nombre":      "nombre",
	"name":        "nombre",
	"descripcion": "descripcion",
	"descripción": "descripcion",
	"categoria":   "categoria",
	"categoría":   "categoria",
	"precio":      "precio",
	"price":       "precio",
	"stock":       "stock",
	"sku":         "sku",
	"codigo":      "sku",
	"código":      "sku",
	"imagen":      "imagen",
	"image":       "imagen",
}

// decodeInput devuelve un lector UTF-8. En modo auto, si el contenido no es UTF-8 válido
// se asume ISO-8859-1 (export típico de planillas en español).
func decodeInput(raw []byte, encoding string) (io.Reader, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	switch strings.ToLower(encoding) {
	case encodingUTF8, "utf8":
		return bytes.NewReader(raw), nil
	case encodingLatin1, "iso-8859-1", "iso8859-1":
		return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()), nil
	case encodingAuto, "":
		if utf8.Valid(raw) {
			return bytes.NewReader(raw), nil
		}
		return transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación desconocida: %q", encoding)
}

// parseCatalog lee el CSV con cabecera. nombre y precio son obligatorios.
func parseCatalog(r io.Reader, delimiter rune) ([]seedProduct, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		if col, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			idx[col] = i
		}
	}
	for _, required := range []string{"nombre", "precio"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q", required)
		}
	}

	var out []seedProduct
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		name := field("nombre")
		if name == "" {
			continue
		}
		price, err := parsePrice(field("precio"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio: %w", line, err)
		}
		p := seedProduct{
			Name:        name,
			Description: field("descripcion"),
			Category:    field("categoria"),
			Price:       price,
			SKU:         field("sku"),
			Image:       field("imagen"),
		}
		if s := field("stock"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("línea %d: stock inválido %q", line, s)
			}
			p.Stock = &n
		}
		out = append(out, p)
	}
	return out, nil
}

// parsePrice acepta "2990", "$2.990", "2990.50" y "2.990,50".
func parsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, " ", "")
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1 || (strings.Contains(s, ".") && len(s)-strings.LastIndex(s, ".") == 4):
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negativo: %s", d)
	}
	return d.Round(2), nil
}

// writeSeedUp escribe inserts idempotentes: se omite el producto si ya existe uno con el mismo sku
// (o el mismo nombre cuando no trae sku).
func writeSeedUp(w io.Writer, products []seedProduct, source string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "-- Catálogo inicial generado por seed_catalog desde %s\n\n", source)
	for _, p := range products {
		stock := "NULL"
		if p.Stock != nil {
			stock = strconv.Itoa(*p.Stock)
		}
		fmt.Fprintf(&b, "INSERT INTO products (name, description, category, price, stock, sku, image)\n")
		fmt.Fprintf(&b, "SELECT %s, %s, %s, %s, %s, %s, %s\n",
			quote(p.Name), quote(p.Description), quote(p.Category), p.Price.StringFixed(2), stock, quote(p.SKU), quote(p.Image))
		fmt.Fprintf(&b, "WHERE NOT EXISTS (SELECT 1 FROM products WHERE %s);\n\n", matchClause(p))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeSeedDown revierte el seed borrando los mismos productos.
func writeSeedDown(w io.Writer, products []seedProduct) error {
	var b strings.Builder
	for _, p := range products {
		fmt.Fprintf(&b, "DELETE FROM products WHERE %s;\n", matchClause(p))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func matchClause(p seedProduct) string {
	if p.SKU != "" {
		return "sku = " + quote(p.SKU)
	}
	return "lower(name) = lower(" + quote(p.Name) + ")"
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
