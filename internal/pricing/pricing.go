package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/silvertrading/billing/internal/models"
)

// ErrUnknownPieceSize is returned when a piece-size key is not in the table.
var ErrUnknownPieceSize = errors.New("unknown piece size")

// Calculator converts weight, piece size, billing mode and rate into piece
// counts and amounts. Pure and deterministic; all results are rounded
// half-up to 2 decimals, consistent with currency display.
type Calculator struct {
	pieceSizes map[string]float64 // size name -> weight per piece, kg
}

// NewCalculator builds a calculator over a fixed piece-size table. The table
// is fixed at initialization and not user-extensible at runtime.
func NewCalculator(pieceSizes map[string]float64) *Calculator {
	sizes := make(map[string]float64, len(pieceSizes))
	for k, v := range pieceSizes {
		sizes[k] = v
	}
	return &Calculator{pieceSizes: sizes}
}

// PieceSizes returns the known size names.
func (c *Calculator) PieceSizes() []string {
	out := make([]string, 0, len(c.pieceSizes))
	for k := range c.pieceSizes {
		out = append(out, k)
	}
	return out
}

// PieceCount derives the number of pieces from total weight and a named
// piece size.
func (c *Calculator) PieceCount(weight float64, pieceSize string) (float64, error) {
	perPiece, ok := c.pieceSizes[pieceSize]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPieceSize, pieceSize)
	}
	return round2(weight / perPiece), nil
}

// TotalAmount prices an invoice. Ready bills weight*rate, Mazduri bills
// pieces*rate. Any other mode yields 0 rather than an error.
func (c *Calculator) TotalAmount(mode models.BillingMode, weight, numPieces, rate float64) float64 {
	switch mode {
	case models.ModeReady:
		return round2(weight * rate)
	case models.ModeMazduri:
		return round2(numPieces * rate)
	}
	return 0
}

// RemainingBalance is the amount still owed after the advance.
func (c *Calculator) RemainingBalance(totalAmount, advancePayment float64) float64 {
	return round2(totalAmount - advancePayment)
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 { return round2(v) }

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
