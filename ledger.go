package folio

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Portfolio is a named set of stock transactions.
//
// Transactions on the same ticker and day are combined into a single entry,
// an entry whose quantity sums to zero is removed.
type Portfolio struct {
	name     string
	mutable  bool
	entries  map[position]decimal.Decimal
	schedule *Schedule // recurring investments, nil for plain portfolios
}

func newPortfolio(name string) *Portfolio {
	return &Portfolio{name: name, mutable: true, entries: make(map[position]decimal.Decimal)}
}

// Name returns the portfolio name.
func (p *Portfolio) Name() string { return p.name }

// Mutable reports whether transactions can be added to p.
func (p *Portfolio) Mutable() bool { return p.mutable }

// Schedule returns the recurring investment schedule of p, or nil.
func (p *Portfolio) Schedule() *Schedule { return p.schedule }

// combine merges tx into entries and returns the resulting quantity.
func combine(entries map[position]decimal.Decimal, tx StockTransaction) decimal.Decimal {
	pos := tx.position()
	q := entries[pos].Add(tx.Quantity)
	if q.IsZero() {
		delete(entries, pos)
	} else {
		entries[pos] = q
	}
	return q
}

// list returns entries as sorted transactions.
func list(entries map[position]decimal.Decimal) []StockTransaction {
	txs := make([]StockTransaction, 0, len(entries))
	for pos, q := range entries {
		txs = append(txs, NewStockTransaction(pos.ticker, q, pos.on))
	}
	sortTransactions(txs)
	return txs
}

// Ledger holds named portfolios and prices them through a Historian.
//
// A Ledger is not safe for concurrent use.
type Ledger struct {
	historian  *Historian
	portfolios map[string]*Portfolio
	names      []string // creation order
	logger     *zap.Logger
}

// NewLedger creates an empty ledger. A nil logger discards logs.
func NewLedger(historian *Historian, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		historian:  historian,
		portfolios: make(map[string]*Portfolio),
		logger:     logger,
	}
}

// Historian returns the historian used to price transactions.
func (l *Ledger) Historian() *Historian { return l.historian }

// CreatePortfolio adds a new empty, mutable portfolio.
func (l *Ledger) CreatePortfolio(name string) error {
	_, err := l.create(name)
	return err
}

func (l *Ledger) create(name string) (*Portfolio, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if _, exists := l.portfolios[name]; exists {
		return nil, failf(ErrDuplicateName, "portfolio %q already exists", name)
	}
	p := newPortfolio(name)
	l.portfolios[name] = p
	l.names = append(l.names, name)
	l.logger.Info("portfolio created", zap.String("portfolio", name))
	return p, nil
}

// checkName rejects names that cannot be stored as "<name>.csv" in a data dir
// or listed one per line.
func checkName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return failf(ErrInvalidName, "invalid portfolio name %q: it is empty", name)
	case strings.ContainsAny(name, "/\\\r\n"):
		return failf(ErrInvalidName, "invalid portfolio name %q: it contains a path separator or a line break", name)
	case strings.HasPrefix(name, "."):
		return failf(ErrInvalidName, "invalid portfolio name %q: it starts with a dot", name)
	}
	return nil
}

// remove forgets a portfolio, used to roll back a failed import.
func (l *Ledger) remove(name string) {
	delete(l.portfolios, name)
	l.names = slices.DeleteFunc(l.names, func(n string) bool { return n == name })
}

// Portfolio returns the portfolio called name.
func (l *Ledger) Portfolio(name string) (*Portfolio, error) {
	p, ok := l.portfolios[name]
	if !ok {
		return nil, failf(ErrUnknownPortfolio, "unknown portfolio %q", name)
	}
	return p, nil
}

// Names returns the portfolio names in creation order.
func (l *Ledger) Names() []string { return slices.Clone(l.names) }

// FlipMutability toggles whether transactions can be added to the portfolio.
func (l *Ledger) FlipMutability(name string) error {
	p, err := l.Portfolio(name)
	if err != nil {
		return err
	}
	p.mutable = !p.mutable
	l.logger.Debug("mutability changed", zap.String("portfolio", name), zap.Bool("mutable", p.mutable))
	return nil
}

// AddStock records quantity shares of ticker on day into the portfolio.
// A negative quantity is a sale.
//
// The transaction must be priceable on day. A sale must be covered by the
// shares held on that day, and cannot be inserted before a sale of the same
// ticker already recorded at a later date.
func (l *Ledger) AddStock(ticker string, quantity decimal.Decimal, day date.Date, name string) error {
	err := l.addStock(NewStockTransaction(ticker, quantity, day), name)
	if err != nil {
		l.logger.Debug("transaction rejected",
			zap.String("portfolio", name),
			zap.String("ticker", ticker),
			zap.Stringer("quantity", quantity),
			zap.Stringer("date", day),
			zap.Error(err))
	}
	return err
}

func (l *Ledger) addStock(tx StockTransaction, name string) error {
	p, err := l.Portfolio(name)
	if err != nil {
		return err
	}
	if !p.mutable {
		return failf(ErrImmutablePortfolio, "portfolio %q is immutable", name)
	}
	if err := l.historian.CheckStock(tx); err != nil {
		return err
	}

	if tx.IsSell() {
		txs, err := l.transactions(l.historian.batch(), p, tx.Date)
		if err != nil {
			return err
		}
		held, sold := SharesOn(tx.Ticker, tx.Date, txs), tx.Quantity.Neg()
		if sold.GreaterThan(held) {
			short := sold.Sub(held)
			return failf(ErrInsufficientShares,
				"cannot sell %s %s on %s: only %s held, short by %s; buy at least %s shares of %s on or before %s",
				sold, tx.Ticker, tx.Date, held, short, short, tx.Ticker, tx.Date)
		}
		if later, ok := p.laterSale(tx); ok {
			return failf(ErrFutureSaleConflict, "cannot sell %s on %s: a sale of %s is already recorded on %s",
				tx.Ticker, tx.Date, tx.Ticker, later)
		}
	}

	q := combine(p.entries, tx)
	if q.IsZero() {
		l.logger.Debug("transaction cancelled out", zap.String("portfolio", name), zap.Stringer("tx", tx))
	} else {
		l.logger.Debug("transaction recorded", zap.String("portfolio", name), zap.Stringer("tx", tx), zap.Stringer("net", q))
	}
	return nil
}

// laterSale returns the earliest sale of tx's ticker recorded after tx's date.
func (p *Portfolio) laterSale(tx StockTransaction) (date.Date, bool) {
	var found date.Date
	for pos, q := range p.entries {
		if pos.ticker != tx.Ticker || !q.IsNegative() || !pos.on.After(tx.Date) {
			continue
		}
		if found.IsZero() || pos.on.Before(found) {
			found = pos.on
		}
	}
	return found, !found.IsZero()
}

// transactions returns the recorded transactions of p combined with the
// recurring investments realized up to asOf.
func (l *Ledger) transactions(q *quotes, p *Portfolio, asOf date.Date) ([]StockTransaction, error) {
	if p.schedule == nil {
		return list(p.entries), nil
	}
	realized, err := p.schedule.realize(q, asOf)
	if err != nil {
		return nil, err
	}
	entries := make(map[position]decimal.Decimal, len(p.entries)+len(realized))
	for pos, qty := range p.entries {
		entries[pos] = qty
	}
	for _, tx := range realized {
		combine(entries, tx)
	}
	return list(entries), nil
}

// Composition returns the combined transactions of the portfolio, including
// recurring investments realized up to today.
func (l *Ledger) Composition(name string) ([]StockTransaction, error) {
	p, err := l.Portfolio(name)
	if err != nil {
		return nil, err
	}
	return l.transactions(l.historian.batch(), p, l.historian.Today())
}

// Tickers returns the tickers traded in the portfolio between start and end.
func (l *Ledger) Tickers(name string, start, end date.Date) ([]string, error) {
	p, err := l.Portfolio(name)
	if err != nil {
		return nil, err
	}
	txs, err := l.transactions(l.historian.batch(), p, end)
	if err != nil {
		return nil, err
	}
	return UniqueTickers(txs, start, end), nil
}

// Value returns the closing value of the portfolio on day.
func (l *Ledger) Value(name string, day date.Date) (decimal.Decimal, error) {
	p, err := l.Portfolio(name)
	if err != nil {
		return decimal.Zero, err
	}
	q := l.historian.batch()
	txs, err := l.transactions(q, p, day)
	if err != nil {
		return decimal.Zero, err
	}
	return valuate(txs, day, func(ticker string) (decimal.Decimal, error) {
		return q.value(ticker, day, true)
	})
}

// valuate sums the shares held on day of every ticker in txs times its price.
func valuate(txs []StockTransaction, day date.Date, price func(ticker string) (decimal.Decimal, error)) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, ticker := range UniqueTickers(txs, date.Date{}, day) {
		shares := SharesOn(ticker, day, txs)
		if shares.IsZero() {
			continue
		}
		v, err := price(ticker)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(shares.Mul(v))
	}
	return total, nil
}

// CostBasis returns the amount paid for all the buys of the portfolio up to
// day, each priced at its closing price. Sales do not reduce the cost basis,
// except those netted into a buy of the same ticker and day: only the net
// entry is recorded.
func (l *Ledger) CostBasis(name string, day date.Date) (decimal.Decimal, error) {
	p, err := l.Portfolio(name)
	if err != nil {
		return decimal.Zero, err
	}
	q := l.historian.batch()
	txs, err := l.transactions(q, p, day)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, tx := range txs {
		if !tx.IsBuy() || tx.Date.After(day) {
			continue
		}
		price, err := q.value(tx.Ticker, tx.Date, true)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(tx.Quantity.Mul(price))
	}
	return total, nil
}

// Import creates a portfolio and replays txs into it in chronological order,
// buys before sales on the same day. Nothing is kept if a transaction is rejected.
func (l *Ledger) Import(name string, txs []StockTransaction) error {
	if _, err := l.create(name); err != nil {
		return err
	}
	sorted := slices.Clone(txs)
	slices.SortStableFunc(sorted, func(a, b StockTransaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return b.Quantity.Cmp(a.Quantity)
	})
	for _, tx := range sorted {
		if err := l.AddStock(tx.Ticker, tx.Quantity, tx.Date, name); err != nil {
			l.remove(name)
			var e *Error
			if errors.As(err, &e) {
				return &Error{Kind: e.Kind, Msg: fmt.Sprintf("import %q: %s", name, e.Msg), Cause: e.Cause}
			}
			return fmt.Errorf("import %q: %w", name, err)
		}
	}
	return nil
}

// Export returns the recorded transactions of the portfolio, without the
// recurring investments, in the order Import expects.
func (l *Ledger) Export(name string) ([]StockTransaction, error) {
	p, err := l.Portfolio(name)
	if err != nil {
		return nil, err
	}
	return list(p.entries), nil
}
