package backup

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"cuentas/internal/core"
	"cuentas/internal/log"
	"cuentas/internal/store"
)

// FilePrefix starts every exported file name.
const FilePrefix = "cuentas-backup-"

// File is an exported backup ready to be written.
type File struct {
	Name string
	Data []byte
}

// FileName returns the export name for the local date of now.
func FileName(now time.Time) string {
	return FilePrefix + core.DateOf(now).String() + ".json"
}

// Store is what backup needs from the record store.
type Store interface {
	ListAccounts(ctx context.Context) ([]core.Account, error)
	ListReturns(ctx context.Context) ([]core.Return, error)
	store.Replacer
}

type Service struct {
	store  Store
	idGen  store.IDGenerator
	now    func() time.Time
	logger *log.Logger
}

func NewService(st Store, idGen store.IDGenerator, now func() time.Time, logger *log.Logger) *Service {
	if idGen == nil {
		idGen = store.NewULIDGenerator()
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Service{store: st, idGen: idGen, now: now, logger: logger.WithComponent(log.ComponentBackup)}
}

// Export serializes the full current data set.
func (s *Service) Export(ctx context.Context) (File, error) {
	var (
		accounts []core.Account
		returns  []core.Return
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.store.ListAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		returns, err = s.store.ListReturns(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return File{}, fmt.Errorf("export: %w", err)
	}

	data, err := Encode(accounts, returns)
	if err != nil {
		return File{}, err
	}
	f := File{Name: FileName(s.now()), Data: data}

	s.logger.InfoContext(ctx, "backup exported",
		log.FieldOperation, log.OpExport,
		log.FieldFile, f.Name,
		"accounts", len(accounts),
		"returns", len(returns))
	return f, nil
}

// Import validates data and, only if it is a valid backup, replaces the whole
// data set with it in one step.
func (s *Service) Import(ctx context.Context, data []byte) (Document, error) {
	doc, err := Decode(data, s.idGen)
	if err != nil {
		s.logger.WarnContext(ctx, "backup rejected", log.FieldOperation, log.OpImport, log.FieldError, err)
		return Document{}, err
	}
	if err := s.store.ReplaceAll(ctx, doc.Accounts, doc.Returns); err != nil {
		return Document{}, fmt.Errorf("import: %w", err)
	}

	s.logger.InfoContext(ctx, "backup imported",
		log.FieldOperation, log.OpImport,
		"accounts", len(doc.Accounts),
		"returns", len(doc.Returns))
	return doc, nil
}
