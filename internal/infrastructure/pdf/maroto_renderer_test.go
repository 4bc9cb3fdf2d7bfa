package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
)

func TestFormatQty(t *testing.T) {
	cases := map[int]string{0: "0", 999: "999", 1500: "1 500", 1000000: "1 000 000", -2000: "-2 000"}
	for in, want := range cases {
		assert.Equal(t, want, formatQty(in))
	}
	assert.Equal(t, "", blankZero(0))
}

func TestStockTracePDF_GeneraDocumento(t *testing.T) {
	g := NewMarotoRenderer("CHU Andrainjato")
	trace := &dto.StockTraceDTO{
		Header: dto.StockTraceHeaderDTO{Name: "Gants", Unit: "paire", Class: "Hygiène"},
		Rows: []dto.StockTraceRowDTO{
			{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Service: "-", Entries: 100, Balance: 100},
			{Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), Service: "Pédiatrie", Existing: 100, Exits: 30, Balance: 70},
		},
	}
	b, err := g.StockTracePDF(trace)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestInventoryPDF_SinLotes(t *testing.T) {
	g := NewMarotoRenderer("CHU Andrainjato")
	inv := &dto.InventoryDTO{
		Header: dto.InventoryHeaderDTO{Title: "INVENTAIRE MATERIEL", Year: "Toutes années", Service: "Urgences", Class: "Toutes classes"},
		Totals: map[string]int{"TOTAL": 0},
	}
	b, err := g.InventoryPDF(inv)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}
