package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wilhasse/innopage"
	"github.com/wilhasse/innopage/config"
	"github.com/wilhasse/innopage/format"
)

type scanResult struct {
	typ     format.PageType
	level   uint16
	records int
	err     error
}

func newScanCmd(a *app) *cobra.Command {
	info := "check the header, record list and directory of every INDEX page"
	cmd := &cobra.Command{
		Use:   "scan",
		Short: info,
		Long:  info,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, n, err := a.reader()
			if err != nil {
				return err
			}
			results := make([]scanResult, n)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.cfg.Scan.Workers)
			for no := uint32(0); no < n; no++ {
				no := no
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					res, err := a.scanPage(r, no)
					results[no] = res
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "Page\tType\tLevel\tRecords\tStatus")
			corrupt := 0
			for no, res := range results {
				if res.typ != format.PageTypeIndex && res.err == nil {
					continue
				}
				status := "ok"
				if res.err != nil {
					status = res.err.Error()
					corrupt++
				}
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", no, res.typ, res.level, res.records, status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if corrupt > 0 {
				return errors.Errorf("%d of %d pages failed checks", corrupt, n)
			}
			return nil
		},
	}
	cmd.Flags().Int("workers", 4, "pages decoded in parallel")
	a.v.BindPFlag(config.KeyScanWorkers, cmd.Flags().Lookup("workers"))
	return cmd
}

// scanPage decodes one page. Failed checks go into the result, not the
// returned error.
func (a *app) scanPage(r *innopage.PageReader, no uint32) (scanResult, error) {
	ip, err := r.ReadPage(no)
	if err != nil {
		a.log.Warn("page unreadable", zap.Uint32("page", no), zap.Error(err))
		return scanResult{err: err}, nil
	}
	res := scanResult{typ: ip.PageType()}
	if res.typ != format.PageTypeIndex {
		return res, nil
	}
	idx, err := a.dec.ParseIndexPage(ip)
	if err != nil {
		res.err = err
		return res, nil
	}
	res.level = idx.Hdr.PageLevel
	res.records = int(idx.Hdr.NumUserRecs)
	if err := a.dec.CheckDirectory(ip.Data); err != nil {
		res.err = err
	} else if err := a.dec.CheckSegments(idx); err != nil {
		res.err = err
	}
	if res.err != nil {
		a.log.Warn("page failed checks", zap.Uint32("page", no), zap.Error(res.err))
	}
	return res, nil
}
