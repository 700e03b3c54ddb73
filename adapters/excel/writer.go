package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"atlasdash/domain/atlas"
	apperrors "atlasdash/internal/errors"
	"atlasdash/internal/normalize"
)

// Workbook export for differential-expression tables and full-atlas
// snapshots. Sheets carry the same canonical labels the panels display.

var deHeader = []string{"Gene", "log2FC", "p-value", "adj. p-value", "Contrast"}

func writeDERows(f *excelize.File, sheet string, rows []atlas.DERow) error {
	for col, h := range deHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for i, row := range rows {
		contrast := ""
		for j, g := range row.Groups {
			if j > 0 {
				contrast += " vs "
			}
			contrast += normalize.Disease(g)
		}
		values := []any{row.Gene, row.LogFC, row.PVal, row.PValAdj, contrast}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteDEWorkbook streams one contrast as a workbook with top-up, top-down
// and full-page sheets.
func WriteDEWorkbook(w io.Writer, table *atlas.DETable) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name string
		rows []atlas.DERow
	}{
		{"Top up", table.TopUp},
		{"Top down", table.TopDown},
		{"All rows", table.Rows},
	}

	first := true
	for _, s := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return apperrors.Wrap(err, "failed to prepare workbook")
			}
			first = false
		} else {
			if _, err := f.NewSheet(s.name); err != nil {
				return apperrors.Wrap(err, "failed to prepare workbook")
			}
		}
		if err := writeDERows(f, s.name, s.rows); err != nil {
			return apperrors.Wrap(err, "failed to write DE rows")
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return apperrors.Wrap(err, "failed to write workbook")
	}
	return nil
}

// SnapshotSection is one disease's worth of snapshot data. A fetch failure
// becomes an error note on the sheet instead of aborting the export.
type SnapshotSection struct {
	Disease     string
	Composition *atlas.Composition
	Dotplot     *atlas.Dotplot
	DE          *atlas.DETable
	Err         string
}

// WriteSnapshotWorkbook writes the full-atlas report: one overview sheet
// plus one sheet per disease.
func WriteSnapshotWorkbook(w io.Writer, manifest *atlas.Manifest, sections []SnapshotSection) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Overview"); err != nil {
		return apperrors.Wrap(err, "failed to prepare workbook")
	}
	f.SetCellValue("Overview", "A1", "Tissue")
	f.SetCellValue("Overview", "B1", manifest.Tissue)
	f.SetCellValue("Overview", "A2", "Diseases")
	f.SetCellValue("Overview", "B2", len(manifest.Diseases))
	f.SetCellValue("Overview", "A3", "Cell types")
	f.SetCellValue("Overview", "B3", len(manifest.CellTypes))
	f.SetCellValue("Overview", "A4", "Accessions")
	f.SetCellValue("Overview", "B4", len(manifest.Accessions))

	for _, section := range sections {
		sheet := normalize.Disease(section.Disease)
		if len(sheet) > 31 { // sheet name limit
			sheet = sheet[:31]
		}
		if _, err := f.NewSheet(sheet); err != nil {
			return apperrors.Wrap(err, "failed to add disease sheet")
		}

		if section.Err != "" {
			f.SetCellValue(sheet, "A1", fmt.Sprintf("fetch failed: %s", section.Err))
			continue
		}

		row := 1
		if section.Composition != nil {
			merged := normalize.MergeComposition(section.Composition)
			f.SetCellValue(sheet, "A1", "Cell type")
			f.SetCellValue(sheet, "B1", "Count")
			f.SetCellValue(sheet, "C1", "Share %")
			for gi, group := range merged.Groups {
				if group != normalize.Disease(section.Disease) {
					continue
				}
				total := 0
				for _, c := range merged.Counts[gi] {
					total += c
				}
				for j, cellType := range merged.CellTypes {
					row++
					cellA, _ := excelize.CoordinatesToCellName(1, row)
					cellB, _ := excelize.CoordinatesToCellName(2, row)
					cellC, _ := excelize.CoordinatesToCellName(3, row)
					f.SetCellValue(sheet, cellA, cellType)
					f.SetCellValue(sheet, cellB, merged.Counts[gi][j])
					f.SetCellValue(sheet, cellC, normalize.Percentage(merged.Counts[gi][j], total))
				}
			}
		}

		if section.Dotplot != nil {
			row += 2
			header := []string{"Gene", "Group", "Mean expr", "% expressing"}
			for col, h := range header {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				f.SetCellValue(sheet, cell, h)
			}
			for _, gene := range section.Dotplot.Genes {
				for _, group := range section.Dotplot.Groups {
					dot := section.Dotplot.Values[gene][group]
					row++
					values := []any{gene, group, dot.Avg, dot.Pct * 100}
					for col, v := range values {
						cell, _ := excelize.CoordinatesToCellName(col+1, row)
						f.SetCellValue(sheet, cell, v)
					}
				}
			}
		}

		if section.DE != nil {
			deSheet := sheet + " DE"
			if len(deSheet) > 31 {
				deSheet = deSheet[:31]
			}
			if _, err := f.NewSheet(deSheet); err != nil {
				return apperrors.Wrap(err, "failed to add DE sheet")
			}
			if err := writeDERows(f, deSheet, section.DE.Rows); err != nil {
				return apperrors.Wrap(err, "failed to write DE rows")
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return apperrors.Wrap(err, "failed to write workbook")
	}
	return nil
}
