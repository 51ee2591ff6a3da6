package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wilhasse/innopage/column"
	"github.com/wilhasse/innopage/dict"
	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/internal/pagebuilder"
	"github.com/wilhasse/innopage/record"
	"github.com/wilhasse/innopage/schema"
)

// genDDL is the table the generated clustered index belongs to.
const genDDL = "CREATE TABLE gen (id int NOT NULL, name varchar(32), PRIMARY KEY (id))"

const (
	genSpaceID = 1
	genIndexID = 100
)

type genOptions struct {
	leaves    int
	records   int
	redundant bool
	system    bool
}

func newGenCmd(a *app) *cobra.Command {
	var opts genOptions
	info := "write a synthetic tablespace for trying out the other commands"
	cmd := &cobra.Command{
		Use:   "gen OUT",
		Short: info,
		Long: info + ". Page 0 is the root of a two-level index over the leaf pages; " +
			"its table is: " + genDDL + ". With --system the file is a system tablespace " +
			"with a dictionary header on page 7 and SYS_TABLES on page 8.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				file []byte
				err  error
			)
			if opts.system {
				file, err = genSystem()
			} else {
				file, err = genIndex(opts)
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[0], file, 0o644); err != nil {
				return errors.Wrap(err, "write tablespace")
			}
			a.log.Info("generated tablespace", zap.String("path", args[0]), zap.Int("pages", len(file)/format.PageSize))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d pages to %s\n", len(file)/format.PageSize, args[0])
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.leaves, "leaves", 3, "number of leaf pages")
	cmd.Flags().IntVar(&opts.records, "records", 40, "records per leaf page")
	cmd.Flags().BoolVar(&opts.redundant, "redundant", false, "use the redundant record format")
	cmd.Flags().BoolVar(&opts.system, "system", false, "write a system tablespace instead")
	return cmd
}

func be(width int, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return b[8-width:]
}

// genInt stores a signed INT the way InnoDB does, sign bit flipped.
func genInt(v int32) []byte { return be(4, uint64(uint32(v)^0x80000000)) }

func genIndex(opts genOptions) ([]byte, error) {
	if opts.leaves < 1 || opts.records < 1 {
		return nil, errors.New("need at least one leaf page and one record per page")
	}
	td, err := schema.ParseTableDefFromSQL(genDDL)
	if err != nil {
		return nil, err
	}
	compact := !opts.redundant

	root := pagebuilder.New(compact)
	root.SpaceID, root.IndexID, root.Level = genSpaceID, genIndexID, 1
	root.SegPage, root.SegOffset = 2, format.FsegArrOffset
	root.LSN = 0x2000
	if compact {
		root.Columns = column.Layout(td.NodePointerFields())
	}

	file := make([]byte, format.PageSize, (opts.leaves+1)*format.PageSize)
	for l := 0; l < opts.leaves; l++ {
		no := uint32(l + 1)
		b := pagebuilder.New(compact)
		b.PageNo, b.SpaceID, b.IndexID = no, genSpaceID, genIndexID
		b.LSN = 0x1000 + uint64(no)
		b.MaxTrxID = 0x500
		if l > 0 {
			b.Prev = no - 1
		}
		if l < opts.leaves-1 {
			b.Next = no + 1
		}
		if compact {
			b.Columns = column.Layout(td.ClusteredFields())
		}
		for i := 0; i < opts.records; i++ {
			id := int32(l*opts.records + i + 1)
			name := record.FieldSpec{Data: []byte(fmt.Sprintf("name-%d", id))}
			if id%5 == 0 {
				name = record.FieldSpec{Null: true}
			}
			b.Add(
				record.FieldSpec{Data: genInt(id)},
				record.FieldSpec{Data: be(6, 0x500)},
				record.FieldSpec{Data: be(7, 1<<55|uint64(id))},
				name,
			)
		}
		p, _, err := b.Build()
		if err != nil {
			return nil, errors.Wrapf(err, "leaf page %d", no)
		}
		file = append(file, p...)

		var ptr record.RedundantOptions
		if l == 0 {
			ptr.InfoBits = format.RecInfoMinRecFlag
		}
		root.AddWith(ptr,
			record.FieldSpec{Data: genInt(int32(l*opts.records + 1))},
			record.FieldSpec{Data: be(4, uint64(no))},
		)
	}
	p, _, err := root.Build()
	if err != nil {
		return nil, errors.Wrap(err, "root page")
	}
	copy(file, p)
	return file, nil
}

// System tablespace layout written by genSystem.
const (
	genSysTablesRoot = dict.HdrPageNo + 1 + iota
	genSysTableIDsRoot
	genSysColumnsRoot
	genSysIndexesRoot
	genSysFieldsRoot
	genSysPages
)

func genSystem() ([]byte, error) {
	file := make([]byte, genSysPages*format.PageSize)
	putDictHeader(file[dict.HdrPageNo*format.PageSize:], dict.Header{
		RowID:      512,
		TableID:    dict.HdrFirstID + 2,
		IndexID:    dict.HdrFirstID + 2,
		MaxSpaceID: genSpaceID,
		MixIDLow:   dict.HdrFirstID,
		Tables:     genSysTablesRoot,
		TableIDs:   genSysTableIDsRoot,
		Columns:    genSysColumnsRoot,
		Indexes:    genSysIndexesRoot,
		Fields:     genSysFieldsRoot,
	})

	tables := []struct {
		name  string
		id    uint64
		ncols uint32
		space uint32
	}{
		{"SYS_FOREIGN", dict.HdrFirstID, 4, 0},
		{"SYS_FOREIGN_COLS", dict.HdrFirstID + 1, 4, 0},
		{"test/gen", dict.HdrFirstID + 2, 2 | 1<<31, genSpaceID},
	}
	for no := uint32(genSysTablesRoot); no < genSysPages; no++ {
		b := pagebuilder.New(false)
		b.PageNo, b.LSN = no, 0x100+uint64(no)
		b.IndexID = uint64(no - genSysTablesRoot + dict.TablesID)
		if no == genSysTablesRoot {
			for i, t := range tables {
				b.Add(
					record.FieldSpec{Data: []byte(t.name)},
					record.FieldSpec{Data: be(6, 0)},
					record.FieldSpec{Data: be(7, 1<<55|uint64(i))},
					record.FieldSpec{Data: be(8, t.id)},
					record.FieldSpec{Data: be(4, uint64(t.ncols))},
					record.FieldSpec{Data: be(4, 1)},
					record.FieldSpec{Data: be(8, 0)},
					record.FieldSpec{Data: be(4, 0)},
					record.FieldSpec{Null: true},
					record.FieldSpec{Data: be(4, uint64(t.space))},
				)
			}
		}
		p, _, err := b.Build()
		if err != nil {
			return nil, errors.Wrapf(err, "system page %d", no)
		}
		copy(file[int(no)*format.PageSize:], p)
	}
	return file, nil
}

// putDictHeader writes a dictionary header page.
func putDictHeader(p []byte, h dict.Header) {
	binary.BigEndian.PutUint32(p[format.FilPageOffset:], dict.HdrPageNo)
	binary.BigEndian.PutUint32(p[format.FilPagePrev:], format.FilNull)
	binary.BigEndian.PutUint32(p[format.FilPageNext:], format.FilNull)
	binary.BigEndian.PutUint16(p[format.FilPageType:], uint16(format.PageTypeSys))

	hdr := p[dict.Hdr:]
	binary.BigEndian.PutUint64(hdr[dict.HdrRowID:], h.RowID)
	binary.BigEndian.PutUint64(hdr[dict.HdrTableID:], h.TableID)
	binary.BigEndian.PutUint64(hdr[dict.HdrIndexID:], h.IndexID)
	binary.BigEndian.PutUint32(hdr[dict.HdrMaxSpaceID:], h.MaxSpaceID)
	binary.BigEndian.PutUint32(hdr[dict.HdrMixIDLow:], h.MixIDLow)
	binary.BigEndian.PutUint32(hdr[dict.HdrTables:], h.Tables)
	binary.BigEndian.PutUint32(hdr[dict.HdrTableIDs:], h.TableIDs)
	binary.BigEndian.PutUint32(hdr[dict.HdrColumns:], h.Columns)
	binary.BigEndian.PutUint32(hdr[dict.HdrIndexes:], h.Indexes)
	binary.BigEndian.PutUint32(hdr[dict.HdrFields:], h.Fields)
}
