package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/wilhasse/innopage/fault"
	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/page"
)

func parsePageNo(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "page number %q", s)
	}
	return uint32(n), nil
}

func newPageCmd(a *app) *cobra.Command {
	info := "print the FIL header and, for INDEX pages, the page header"
	return &cobra.Command{
		Use:   "page PAGE_NO",
		Short: info,
		Long:  info,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			no, err := parsePageNo(args[0])
			if err != nil {
				return err
			}
			r, n, err := a.reader()
			if err != nil {
				return err
			}
			if no >= n {
				return errors.Errorf("page %d out of range: file has %d pages", no, n)
			}
			ip, err := r.ReadPage(no)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printFil(out, ip)
			if ip.PageType() != format.PageTypeIndex {
				return nil
			}
			idx, err := a.dec.ParseIndexPage(ip)
			if err != nil {
				return err
			}
			printIndexHeader(out, a.dec, idx)

			a.rep.SetCallback(fault.TagCallback(a.log, fault.ContextLeafSegment))
			defer a.rep.ResetCallback()
			return a.dec.CheckSegments(idx)
		},
	}
}

func pageLink(v *uint32) string {
	if v == nil {
		return "NULL"
	}
	return strconv.FormatUint(uint64(*v), 10)
}

func printFil(w io.Writer, ip *page.InnerPage) {
	fmt.Fprintf(w, "=== Page %d ===\n", ip.PageNo)
	fmt.Fprintf(w, "\nFIL Header:\n")
	fmt.Fprintf(w, "  Checksum:    0x%08x\n", ip.FIL.Checksum)
	fmt.Fprintf(w, "  Page Number: %d\n", ip.FIL.PageNumber)
	fmt.Fprintf(w, "  Page Type:   %s (%d)\n", ip.FIL.PageType, uint16(ip.FIL.PageType))
	fmt.Fprintf(w, "  Space ID:    %d\n", ip.FIL.SpaceID)
	fmt.Fprintf(w, "  LSN:         %d\n", ip.FIL.LastModLSN)
	fmt.Fprintf(w, "  Prev Page:   %s\n", pageLink(ip.FIL.Prev))
	fmt.Fprintf(w, "  Next Page:   %s\n", pageLink(ip.FIL.Next))
	fmt.Fprintf(w, "\nFIL Trailer:\n")
	fmt.Fprintf(w, "  Checksum:    0x%08x\n", ip.Trailer.Checksum)
	fmt.Fprintf(w, "  Low32 LSN:   0x%08x\n", ip.Trailer.Low32LSN)
}

func leafOrInternal(p *page.IndexPage) string {
	if p.IsLeaf() {
		if p.IsRoot() {
			return "(root leaf)"
		}
		return "(leaf)"
	}
	if p.IsRoot() {
		return "(root internal)"
	}
	return "(internal)"
}

func printIndexHeader(w io.Writer, d *page.Decoder, idx *page.IndexPage) {
	p := idx.Inner.Data
	fmt.Fprintf(w, "\nIndex Header:\n")
	fmt.Fprintf(w, "  Format:      %s\n", idx.Hdr.Format)
	fmt.Fprintf(w, "  Level:       %d %s\n", idx.Hdr.PageLevel, leafOrInternal(idx))
	for _, f := range page.HeaderFields() {
		fmt.Fprintf(w, "  %-18s %d\n", f.String()+":", d.Header(p, f))
	}
	fmt.Fprintf(w, "  Direction:   %s\n", idx.Hdr.Direction)
	fmt.Fprintf(w, "  Leaf Seg:    space %d page %d offset %d\n", idx.Segs.Leaf.Space, idx.Segs.Leaf.PageNo, idx.Segs.Leaf.Offset)
	fmt.Fprintf(w, "  Top Seg:     space %d page %d offset %d\n", idx.Segs.Top.Space, idx.Segs.Top.PageNo, idx.Segs.Top.Offset)
	fmt.Fprintf(w, "\nPage Usage:  %d / %d bytes (%.1f%%)\n",
		idx.UsedBytes(), format.PageSize, float64(idx.UsedBytes())*100/float64(format.PageSize))
}
