// Package saxo reads Saxo Bank account statement workbooks: the
// ClosedPositions, Share Dividends and Interest Details sheets, plus the
// separate instrument info export used to pre-fill the ISIN cache.
package saxo

import (
	"fmt"
	"io"
	"strings"

	"github.com/jernejstrasner/taxes/src/logger"
	"github.com/jernejstrasner/taxes/src/models"
	"github.com/jernejstrasner/taxes/src/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Saxo date cells render as 02-Jan-2006.
var saxoDateFormats = []string{"02-Jan-2006", "2006-01-02"}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// sheet loads a worksheet into a header-index map plus data rows.
type sheet struct {
	columns map[string]int
	rows    [][]string
}

func openSheet(file io.Reader, name string) (*sheet, func() error, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("saxo parser: failed to open workbook: %w", err)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("saxo parser: reading sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		f.Close()
		return nil, nil, fmt.Errorf("saxo parser: sheet %q is empty", name)
	}
	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[strings.TrimSpace(header)] = i
	}
	return &sheet{columns: columns, rows: rows[1:]}, f.Close, nil
}

// cell returns a trimmed cell by header name; short rows read as empty.
func (s *sheet) cell(row []string, header string) string {
	idx, ok := s.columns[header]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (s *sheet) decimal(row []string, header string) (decimal.Decimal, error) {
	raw := s.cell(row, header)
	if raw == "" {
		return decimal.Decimal{}, fmt.Errorf("column %q is empty", header)
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("column %q: invalid number %q", header, raw)
	}
	return v, nil
}

// ParseClosedPositions reads the ClosedPositions sheet into typed rows.
// Prices stay in the instrument currency; conversion happens downstream.
func (p *Parser) ParseClosedPositions(file io.Reader) ([]models.ClosedPositionRow, error) {
	s, closeFn, err := openSheet(file, "ClosedPositions")
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var out []models.ClosedPositionRow
	for i, row := range s.rows {
		if s.cell(row, "Instrument Symbol") == "" {
			continue
		}
		parsed, err := p.parseClosedRow(s, row)
		if err != nil {
			return nil, fmt.Errorf("saxo parser: ClosedPositions row %d: %w", i+2, err)
		}
		out = append(out, parsed)
	}
	logger.L.Info("Parsed Saxo closed positions", "rows", len(out))
	return out, nil
}

func (p *Parser) parseClosedRow(s *sheet, row []string) (models.ClosedPositionRow, error) {
	openDate, err := utils.ParseDate(s.cell(row, "Trade Date Open"), saxoDateFormats)
	if err != nil {
		return models.ClosedPositionRow{}, fmt.Errorf("open date: %w", err)
	}
	closeDate, err := utils.ParseDate(s.cell(row, "Trade Date Close"), saxoDateFormats)
	if err != nil {
		return models.ClosedPositionRow{}, fmt.Errorf("close date: %w", err)
	}
	quantityOpen, err := s.decimal(row, "Quantity Open")
	if err != nil {
		return models.ClosedPositionRow{}, err
	}
	quantityClose, err := s.decimal(row, "QuantityClose")
	if err != nil {
		return models.ClosedPositionRow{}, err
	}
	openPrice, err := s.decimal(row, "Open Price")
	if err != nil {
		return models.ClosedPositionRow{}, err
	}
	closePrice, err := s.decimal(row, "Close Price")
	if err != nil {
		return models.ClosedPositionRow{}, err
	}
	gain, err := s.decimal(row, "PnLAccountCurrency")
	if err != nil {
		return models.ClosedPositionRow{}, err
	}

	// Symbols carry an exchange suffix ("AAPL:xnas"); FURS wants the bare code.
	symbol, _, _ := strings.Cut(s.cell(row, "Instrument Symbol"), ":")

	return models.ClosedPositionRow{
		Symbol:          symbol,
		AssetType:       s.cell(row, "Asset type"),
		Currency:        s.cell(row, "Instrument currency"),
		OpenDate:        openDate,
		CloseDate:       closeDate,
		QuantityOpen:    quantityOpen.Abs(),
		QuantityClose:   quantityClose.Abs(),
		OpenPrice:       openPrice,
		ClosePrice:      closePrice,
		OpenPositionID:  s.cell(row, "OpenPositionId"),
		ClosePositionID: s.cell(row, "ClosePositionId"),
		Gain:            gain,
	}, nil
}

// ParseDividends reads the Share Dividends sheet. Amounts keep their
// "CCY 12.34" form for the dividend processor to convert.
func (p *Parser) ParseDividends(file io.Reader) ([]models.DividendRow, error) {
	s, closeFn, err := openSheet(file, "Share Dividends")
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var out []models.DividendRow
	for i, row := range s.rows {
		if s.cell(row, "Instrument") == "" {
			continue
		}
		date, err := utils.ParseDate(s.cell(row, "Pay Date"), saxoDateFormats)
		if err != nil {
			return nil, fmt.Errorf("saxo parser: Share Dividends row %d: pay date: %w", i+2, err)
		}
		out = append(out, models.DividendRow{
			PayerName:  s.cell(row, "Instrument"),
			Symbol:     s.cell(row, "Instrument Symbol"),
			Event:      s.cell(row, "Event"),
			Date:       date,
			Amount:     s.cell(row, "Dividend amount"),
			ForeignTax: s.cell(row, "Withholding tax amount"),
		})
	}
	logger.L.Info("Parsed Saxo dividends", "rows", len(out))
	return out, nil
}

// ParseInterest reads the Interest Details sheet. Dates are calculation
// dates in GMT; amounts stay in the account currency.
func (p *Parser) ParseInterest(file io.Reader) ([]models.InterestRow, error) {
	s, closeFn, err := openSheet(file, "Interest Details")
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var out []models.InterestRow
	for i, row := range s.rows {
		if s.cell(row, "Calculation dateGMT") == "" {
			continue
		}
		date, err := utils.ParseDate(s.cell(row, "Calculation dateGMT"), saxoDateFormats)
		if err != nil {
			return nil, fmt.Errorf("saxo parser: Interest Details row %d: %w", i+2, err)
		}
		amount, err := s.decimal(row, "Interest amount")
		if err != nil {
			return nil, fmt.Errorf("saxo parser: Interest Details row %d: %w", i+2, err)
		}
		currency := s.cell(row, "Account Currency")
		if len(currency) > 3 {
			currency = currency[:3]
		}
		out = append(out, models.InterestRow{Date: date, Currency: currency, Amount: amount})
	}
	logger.L.Info("Parsed Saxo interest rows", "rows", len(out))
	return out, nil
}

// ParseInstrumentInfo reads the first sheet of the additional info export,
// mapping instrument symbols to ISINs.
func (p *Parser) ParseInstrumentInfo(file io.Reader) ([]models.InstrumentInfo, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("saxo parser: failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("saxo parser: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("saxo parser: reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("saxo parser: sheet %q is empty", sheets[0])
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[strings.TrimSpace(header)] = i
	}
	s := &sheet{columns: columns, rows: rows[1:]}

	var out []models.InstrumentInfo
	for _, row := range s.rows {
		symbol := s.cell(row, "Instrument Symbol")
		if symbol == "" {
			continue
		}
		out = append(out, models.InstrumentInfo{
			Symbol: symbol,
			ISIN:   s.cell(row, "Instrument ISIN"),
		})
	}
	return out, nil
}
