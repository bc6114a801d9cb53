package parsers

import (
	"io"

	"github.com/jernejstrasner/taxes/src/models"
)

// TradeParser turns one broker export into gains trade rows keyed for the
// position registry.
type TradeParser interface {
	Parse(file io.Reader) ([]models.IBKRTrade, error)
}

// StatementParser covers the Saxo workbook sheets the tax commands consume.
type StatementParser interface {
	ParseClosedPositions(file io.Reader) ([]models.ClosedPositionRow, error)
	ParseDividends(file io.Reader) ([]models.DividendRow, error)
	ParseInterest(file io.Reader) ([]models.InterestRow, error)
	ParseInstrumentInfo(file io.Reader) ([]models.InstrumentInfo, error)
}
