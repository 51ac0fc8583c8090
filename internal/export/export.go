// Package export genera la hoja de cálculo del catálogo: una fila por variante.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"

	"laily-api/internal/models"
)

const (
	SheetName   = "Products"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	timeLayout  = "2006-01-02 15:04:05"
)

var Headers = []string{
	"ID", "SKU", "Name", "Category", "Status",
	"OriginalPrice", "DiscountPercentage", "DiscountedPrice", "DiscountAmount",
	"VariantID", "Color", "Size", "Stock", "VariantSKU",
	"CreatedAt", "UpdatedAt",
}

// Build arma el libro. Un producto sin variantes ocupa una fila con las
// columnas de variante vacías.
func Build(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range Headers {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		if len(p.Variants) == 0 {
			addRow(sheet, p, nil)
			continue
		}
		for i := range p.Variants {
			addRow(sheet, p, &p.Variants[i])
		}
	}
	return file, nil
}

func addRow(sheet *xlsx.Sheet, p models.Product, v *models.Variant) {
	row := sheet.AddRow()
	row.AddCell().SetString(p.ID.Hex())
	row.AddCell().SetString(p.SKU)
	row.AddCell().SetString(p.Name)
	row.AddCell().SetString(p.Category)
	row.AddCell().SetString(strings.Join(p.Status, ","))
	row.AddCell().SetFloat(p.Price.OriginalPrice)
	row.AddCell().SetFloat(p.Price.DiscountPercentage)
	row.AddCell().SetFloat(p.Price.DiscountedPrice)
	row.AddCell().SetFloat(p.Price.DiscountAmount)

	if v != nil {
		row.AddCell().SetString(v.ID.Hex())
		row.AddCell().SetString(v.Color)
		row.AddCell().SetString(v.Size)
		row.AddCell().SetInt(v.Stock)
		row.AddCell().SetString(v.VariantSKU)
	} else {
		for i := 0; i < 5; i++ {
			row.AddCell().SetString("")
		}
	}

	row.AddCell().SetString(p.CreatedAt.Format(timeLayout))
	row.AddCell().SetString(p.UpdatedAt.Format(timeLayout))
}

// Write serializa el libro en formato .xlsx
func Write(w io.Writer, products []models.Product) error {
	file, err := Build(products)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
