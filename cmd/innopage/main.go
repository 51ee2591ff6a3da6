package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wilhasse/innopage"
	"github.com/wilhasse/innopage/config"
	"github.com/wilhasse/innopage/fault"
	"github.com/wilhasse/innopage/page"
)

// app holds what every subcommand needs once flags and config are loaded.
type app struct {
	v       *viper.Viper
	cfgFile string
	path    string

	cfg *config.Config
	log *zap.Logger
	rep *fault.Reporter
	dec *page.Decoder

	file *os.File
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	info := "inspect InnoDB index pages"
	root := &cobra.Command{
		Use:          "innopage",
		Short:        info,
		Long:         info,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "TOML config file")
	pf.StringVarP(&a.path, "file", "f", "", "InnoDB data file")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("on-corruption", "error", "on a corrupt page: error or abort")
	a.v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	a.v.BindPFlag(config.KeyOnCorruption, pf.Lookup("on-corruption"))

	root.AddCommand(
		newPageCmd(a),
		newRecordsCmd(a),
		newNthCmd(a),
		newDirCmd(a),
		newScanCmd(a),
		newDictCmd(a),
		newGenCmd(a),
	)
	return root
}

func (a *app) load() error {
	if err := config.ReadFile(a.v, a.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	a.rep = cfg.NewReporter(log)
	fault.SetDefault(a.rep)
	a.dec = page.NewDecoder(a.rep)
	return nil
}

func (a *app) close() {
	if a.file != nil {
		a.file.Close()
		a.file = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// reader opens the data file named by --file.
func (a *app) reader() (*innopage.PageReader, uint32, error) {
	if a.path == "" {
		return nil, 0, errors.New("--file is required")
	}
	if a.file == nil {
		f, err := os.Open(a.path)
		if err != nil {
			return nil, 0, errors.Wrap(err, "open data file")
		}
		a.file = f
	}
	st, err := a.file.Stat()
	if err != nil {
		return nil, 0, errors.Wrap(err, "stat data file")
	}
	a.log.Debug("opened data file", zap.String("path", a.path), zap.Int64("size", st.Size()))
	return innopage.NewPageReader(a.file, a.dec), innopage.NumPages(st.Size()), nil
}

// indexPage reads page no and decodes it as an INDEX page.
func (a *app) indexPage(no uint32) (*page.IndexPage, error) {
	r, n, err := a.reader()
	if err != nil {
		return nil, err
	}
	if no >= n {
		return nil, errors.Errorf("page %d out of range: file has %d pages", no, n)
	}
	return r.ReadIndexPage(no)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
