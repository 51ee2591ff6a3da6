package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wilhasse/innopage/column"
	"github.com/wilhasse/innopage/config"
	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/page"
	"github.com/wilhasse/innopage/record"
	"github.com/wilhasse/innopage/schema"
)

func newRecordsCmd(a *app) *cobra.Command {
	var (
		sqlFile string
		system  bool
	)
	info := "walk the record list of an INDEX page"
	cmd := &cobra.Command{
		Use:   "records PAGE_NO",
		Short: info,
		Long:  info + ". With --sql, field values are decoded using the table definition.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			no, err := parsePageNo(args[0])
			if err != nil {
				return err
			}
			var td *schema.TableDef
			if sqlFile != "" {
				if td, err = schema.ParseTableDefFromSQLFile(sqlFile); err != nil {
					return err
				}
			}
			idx, err := a.indexPage(no)
			if err != nil {
				return err
			}
			if td != nil {
				if compact, ok := td.Compact(); ok && compact != (idx.Hdr.Format == format.FormatCompact) {
					a.log.Warn("table row format does not match the page",
						zap.String("table", td.Name), zap.String("row_format", td.RowFormat),
						zap.Stringer("page_format", idx.Hdr.Format))
				}
			}
			recs, err := idx.WalkRecords(a.cfg.Decode.MaxRecords, !system)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), idx, recs, td, a.cfg.Decode.MaxRecords)
		},
	}
	cmd.Flags().StringVar(&sqlFile, "sql", "", "file with the CREATE TABLE statement of the index's table")
	cmd.Flags().BoolVar(&system, "system", false, "include the infimum and supremum records")
	cmd.Flags().Int("max", 1000, "maximum number of records, 0 for all")
	a.v.BindPFlag(config.KeyMaxRecords, cmd.Flags().Lookup("max"))
	return cmd
}

// nextOf is the page offset a record's next pointer leads to, 0 at the end
// of the list.
func nextOf(r record.Record) int {
	if r.Header.NextRaw == 0 {
		return 0
	}
	if r.Header.Compact {
		return r.Header.NextDisplacement().Target(r.Pos)
	}
	return int(r.Header.NextRaw)
}

// rowFields locates the fields of a user record of td's clustered index.
func rowFields(idx *page.IndexPage, r record.Record, td *schema.TableDef) ([]*schema.Column, []record.Field, error) {
	cols := td.ClusteredFields()
	if !idx.IsLeaf() {
		cols = td.NodePointerFields()
	}
	if !r.Header.Compact {
		return cols, r.Fields, nil
	}
	fields, err := idx.Decoder().Records().CompactFields(idx.Inner.Data, r.Pos, column.Layout(cols))
	return cols, fields, err
}

func formatField(p []byte, rec int, f record.Field, col *schema.Column) string {
	if f.External {
		return fmt.Sprintf("EXTERN(%d)", f.Length)
	}
	if col == nil {
		return column.Format(f.Bytes(p, rec))
	}
	v, err := column.Decode(f.Bytes(p, rec), f.Null, col)
	if err != nil {
		return fmt.Sprintf("ERR(%v)", err)
	}
	return column.Format(v)
}

func printRecords(out io.Writer, idx *page.IndexPage, recs []record.Record, td *schema.TableDef, max int) error {
	p := idx.Inner.Data
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tPos\tHeap#\tType\tDeleted\tOwned\tNext")
	if td != nil {
		cols := td.ClusteredFields()
		if !idx.IsLeaf() {
			cols = td.NodePointerFields()
		}
		for _, c := range cols {
			fmt.Fprintf(w, "\t%s", c.Name)
		}
	}
	fmt.Fprintln(w)

	for i, r := range recs {
		h := r.Header
		fmt.Fprintf(w, "  %d\t%d\t%d\t%s\t%v\t%d\t%d", i, r.Pos, h.HeapNo, h.Type(), h.Deleted(), h.NOwned(), nextOf(r))
		if td != nil && !isSystem(r) {
			cols, fields, err := rowFields(idx, r, td)
			if err != nil {
				w.Flush()
				return err
			}
			for j, f := range fields {
				var col *schema.Column
				if j < len(cols) {
					col = cols[j]
				}
				fmt.Fprintf(w, "\t%s", formatField(p, r.Pos, f, col))
			}
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if max > 0 && len(recs) >= max {
		fmt.Fprintf(out, "  ... (showing first %d records)\n", max)
	}
	return nil
}

func isSystem(r record.Record) bool {
	t := r.Header.Type()
	return t == format.RecInfimum || t == format.RecSupremum
}
