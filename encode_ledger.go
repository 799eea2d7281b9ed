package folio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// LogExt is the file extension of a transaction log.
const LogExt = ".csv"

// IndexFile lists, one per line, the portfolios of a data dir in creation order.
const IndexFile = ".portfolios"

// EncodeTransactions writes txs as a transaction log: one "ticker,quantity,date"
// line per transaction.
func EncodeTransactions(w io.Writer, txs []StockTransaction) error {
	cw := csv.NewWriter(w)
	for _, tx := range txs {
		if err := cw.Write([]string{tx.Ticker, tx.Quantity.String(), tx.Date.String()}); err != nil {
			return fmt.Errorf("failed to write transaction %v: %w", tx, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeTransactions reads a transaction log. Any malformed line fails the whole decoding.
func DecodeTransactions(r io.Reader) ([]StockTransaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // checked below for a better message
	cr.TrimLeadingSpace = true

	var txs []StockTransaction
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid transaction log: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(record) != 3 {
			return nil, fmt.Errorf("line %d: want 3 fields ticker,quantity,date, got %d", line, len(record))
		}
		ticker := strings.TrimSpace(record[0])
		if ticker == "" {
			return nil, fmt.Errorf("line %d: missing ticker", line)
		}
		quantity, err := decimal.NewFromString(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity %q: %w", line, record[1], err)
		}
		on, err := date.Parse(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, NewStockTransaction(ticker, quantity, on))
	}
	return txs, nil
}

// SaveDir writes the recorded transactions of every portfolio of the ledger
// into dir, one "<name>.csv" file per portfolio, and the creation order into
// IndexFile.
func SaveDir(dir string, l *Ledger) error {
	names := l.Names()
	for _, name := range names {
		txs, err := l.Export(name)
		if err != nil {
			return err
		}
		if err := SaveFile(filepath.Join(dir, name+LogExt), txs); err != nil {
			return err
		}
	}
	var index strings.Builder
	for _, name := range names {
		index.WriteString(name + "\n")
	}
	if err := os.WriteFile(filepath.Join(dir, IndexFile), []byte(index.String()), 0o644); err != nil {
		return fmt.Errorf("could not write portfolio index: %w", err)
	}
	return nil
}

// SaveFile writes txs into the transaction log file.
func SaveFile(path string, txs []StockTransaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create transaction log %q: %w", path, err)
	}
	if err := EncodeTransactions(f, txs); err != nil {
		f.Close()
		return fmt.Errorf("could not encode transaction log %q: %w", path, err)
	}
	return f.Close()
}

// LoadFile reads the transaction log file.
func LoadFile(path string) ([]StockTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open transaction log %q: %w", path, err)
	}
	defer f.Close()
	txs, err := DecodeTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode transaction log %q: %w", path, err)
	}
	return txs, nil
}

// LoadDir imports every transaction log in dir into the ledger, named after
// the file base name. Portfolios listed in IndexFile come first in its order,
// the others follow by name. All files are decoded before any portfolio is
// created.
func LoadDir(dir string, l *Ledger) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+LogExt))
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	found := make([]string, len(paths))
	for i, path := range paths {
		found[i] = strings.TrimSuffix(filepath.Base(path), LogExt)
	}
	index, err := readIndex(dir)
	if err != nil {
		return nil, err
	}
	var ordered []string
	for _, name := range index {
		if slices.Contains(found, name) && !slices.Contains(ordered, name) {
			ordered = append(ordered, name)
		}
	}
	for _, name := range found {
		if !slices.Contains(ordered, name) {
			ordered = append(ordered, name)
		}
	}

	logs := make([][]StockTransaction, len(ordered))
	for i, name := range ordered {
		if logs[i], err = LoadFile(filepath.Join(dir, name+LogExt)); err != nil {
			return nil, err
		}
	}
	names := make([]string, 0, len(ordered))
	for i, name := range ordered {
		if err := l.Import(name, logs[i]); err != nil {
			return names, err
		}
		names = append(names, name)
	}
	return names, nil
}

// readIndex returns the names listed in the IndexFile of dir, if any.
func readIndex(dir string) ([]string, error) {
	content, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read portfolio index: %w", err)
	}
	var names []string
	for _, line := range strings.Split(string(content), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}
