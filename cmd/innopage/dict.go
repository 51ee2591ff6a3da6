package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wilhasse/innopage/dict"
	"github.com/wilhasse/innopage/fault"
	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/page"
	"github.com/wilhasse/innopage/schema"
)

func newDictCmd(a *app) *cobra.Command {
	var table string
	info := "print the data dictionary header and a system table of a system tablespace"
	cmd := &cobra.Command{
		Use:   "dict",
		Short: info,
		Long:  info,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, n, err := a.reader()
			if err != nil {
				return err
			}
			if n <= dict.HdrPageNo {
				return errors.Errorf("file has %d pages, no dictionary header", n)
			}
			ip, err := r.ReadPage(dict.HdrPageNo)
			if err != nil {
				return err
			}
			h, err := dict.ParseHeader(ip.Data)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printDictHeader(out, h)
			if table == "" {
				return nil
			}

			td, err := dict.Table(table)
			if err != nil {
				return err
			}
			root, ok := h.Root(table)
			if !ok {
				return errors.Errorf("%s has no root page in the dictionary header", table)
			}

			a.rep.SetCallback(fault.TagCallback(a.log, fault.ContextSysTables))
			defer a.rep.ResetCallback()

			fmt.Fprintf(out, "\n%s (root page %d):\n", table, root)
			leaf, err := a.leftmostLeaf(root, n, td)
			if err != nil {
				return err
			}
			left := a.cfg.Decode.MaxRecords
			for pages := uint32(0); leaf != nil; pages++ {
				if pages >= n {
					return errors.Errorf("%s leaf chain longer than the file", table)
				}
				recs, err := leaf.WalkRecords(left, true)
				if err != nil {
					return err
				}
				if err := printRecords(out, leaf, recs, td, 0); err != nil {
					return err
				}
				if a.cfg.Decode.MaxRecords > 0 {
					if left -= len(recs); left <= 0 {
						return nil
					}
				}
				if leaf.Inner.FIL.Next == nil {
					return nil
				}
				if leaf, err = a.indexPage(*leaf.Inner.FIL.Next); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", dict.SysTables, "system table to list; empty prints only the header")
	return cmd
}

func printDictHeader(w io.Writer, h dict.Header) {
	fmt.Fprintf(w, "Dictionary Header (page %d):\n", dict.HdrPageNo)
	fmt.Fprintf(w, "  Row ID:        %d (next free %d)\n", h.RowID, h.NextRowID())
	fmt.Fprintf(w, "  Table ID:      %d\n", h.TableID)
	fmt.Fprintf(w, "  Index ID:      %d\n", h.IndexID)
	fmt.Fprintf(w, "  Max Space ID:  %d\n", h.MaxSpaceID)
	for _, name := range []string{dict.SysTables, dict.SysColumns, dict.SysIndexes, dict.SysFields} {
		root, _ := h.Root(name)
		fmt.Fprintf(w, "  %-14s root page %d\n", name+":", root)
	}
	fmt.Fprintf(w, "  %-14s root page %d\n", "SYS_TABLE_IDS:", h.TableIDs)
}

// leftmostLeaf follows the first node pointer of each level down from root.
func (a *app) leftmostLeaf(root, n uint32, td *schema.TableDef) (*page.IndexPage, error) {
	no := root
	for depth := 0; ; depth++ {
		idx, err := a.indexPage(no)
		if err != nil {
			return nil, err
		}
		if idx.IsLeaf() {
			return idx, nil
		}
		if depth > format.BtrMaxLevels {
			return nil, a.rep.Corruptf("B-tree under page %d deeper than %d levels%s", root, format.BtrMaxLevels, format.PageIdent(idx.Inner.Data))
		}
		child, err := a.firstChild(idx, td)
		if err != nil {
			return nil, err
		}
		if child >= n {
			return nil, a.rep.Corruptf("node pointer to page %d past the end of the file%s", child, format.PageIdent(idx.Inner.Data))
		}
		no = child
	}
}

// firstChild returns the child page of the first node pointer record.
func (a *app) firstChild(idx *page.IndexPage, td *schema.TableDef) (uint32, error) {
	p := idx.Inner.Data
	recs, err := idx.WalkRecords(1, true)
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, a.rep.Corruptf("node pointer page has no records%s", format.PageIdent(p))
	}
	_, fields, err := rowFields(idx, recs[0], td)
	if err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, a.rep.Corruptf("node pointer at %d has no fields%s", recs[0].Pos, format.PageIdent(p))
	}
	child := fields[len(fields)-1]
	if child.Null || child.Length != 4 {
		return 0, a.rep.Corruptf("node pointer at %d has a %d byte child field%s", recs[0].Pos, child.Length, format.PageIdent(p))
	}
	v, _ := format.Be32(p, recs[0].Pos+child.Start)
	return v, nil
}
