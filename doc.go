// Package innopage decodes InnoDB index pages: page header fields, record
// headers and field offsets in both record formats, and the page directory.
//
// The work is split across subpackages:
//
//   - format: on-disk constants, bit layouts and bounds-checked readers
//   - fault: corruption reporting and the pluggable corruption callback
//   - record: record headers, redundant field offsets and next pointers
//   - page: FIL header, index header fields, directory slots and Nth
//   - schema, column: table definitions and typed column decoding
//   - dict: the data dictionary header and system table layouts
//   - config: viper settings and the zap logger used by cmd/innopage
//
// Basic usage:
//
//	file, _ := os.Open("table.ibd")
//	defer file.Close()
//
//	reader := innopage.NewPageReader(file, nil)
//	pg, _ := reader.ReadPage(3)
//
//	if pg.PageType() == innopage.PageTypeIndex {
//	    indexPage, _ := innopage.ParseIndexPage(pg)
//	    records, _ := indexPage.WalkRecords(100, true)
//	    fifth, _ := indexPage.Decoder().Nth(pg.Data, 5)
//	}
//
// Corruption is reported through a fault.Reporter. By default it logs and
// returns an error wrapping ErrCorrupt; a callback installed with
// SetCallback runs first, before anything else happens.
package innopage
