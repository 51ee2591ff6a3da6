package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/wilhasse/innopage/page"
	"github.com/wilhasse/innopage/record"
)

func newNthCmd(a *app) *cobra.Command {
	var check bool
	info := "find the record at an ordinal position using the page directory"
	cmd := &cobra.Command{
		Use:   "nth PAGE_NO N",
		Short: info,
		Long:  info + ". Ordinal 0 is the infimum.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			no, err := parsePageNo(args[0])
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 0 {
				return errors.Errorf("ordinal %q must be a non-negative integer", args[1])
			}
			idx, err := a.indexPage(no)
			if err != nil {
				return err
			}
			p := idx.Inner.Data
			rec, err := a.dec.Nth(p, n)
			if err != nil {
				return err
			}
			if check {
				lin, err := a.dec.NthLinear(p, n)
				if err != nil {
					return err
				}
				if lin != rec {
					return errors.Errorf("directory lookup found %d, list walk found %d", rec, lin)
				}
			}
			h, err := record.ParseHeader(p, rec, a.dec.IsCompact(p))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "record %d: offset %d heap %d type %s owned %d\n",
				n, rec, h.HeapNo, h.Type(), h.NOwned())
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "cross-check against a walk of the record list")
	return cmd
}

func newDirCmd(a *app) *cobra.Command {
	info := "print the page directory as a tree of slots and the records they own"
	return &cobra.Command{
		Use:   "dir PAGE_NO",
		Short: info,
		Long:  info,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			no, err := parsePageNo(args[0])
			if err != nil {
				return err
			}
			idx, err := a.indexPage(no)
			if err != nil {
				return err
			}
			tree, err := dirTree(a.dec, idx)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tree.String())
			if err := a.dec.CheckDirectory(idx.Inner.Data); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "directory consistent")
			return nil
		},
	}
}

// dirTree lists every slot with the run of records it owns: the records
// after the previous slot's record up to and including its own.
func dirTree(d *page.Decoder, idx *page.IndexPage) (treeprint.Tree, error) {
	p := idx.Inner.Data
	slots, err := d.Slots(p)
	if err != nil {
		return nil, err
	}
	tree := treeprint.NewWithRoot(fmt.Sprintf("page %d: %d slots, %d records", idx.Inner.PageNo, len(slots), idx.Hdr.NumUserRecs))
	rec := d.Infimum(p)
	for _, s := range slots {
		branch := tree.AddBranch(fmt.Sprintf("slot %d: record %d owns %d", s.Index, s.Rec, s.Owned))
		if s.Index > 0 {
			next, ok, err := d.Next(p, rec)
			if err != nil {
				return nil, err
			}
			if !ok {
				return tree, nil
			}
			rec = next
		}
		for j := 0; ; j++ {
			branch.AddNode(rec)
			if rec == s.Rec || j >= s.Owned {
				break
			}
			next, ok, err := d.Next(p, rec)
			if err != nil {
				return nil, err
			}
			if !ok {
				return tree, nil
			}
			rec = next
		}
	}
	return tree, nil
}
