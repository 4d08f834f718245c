package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/stockview/internal/service"
	"github.com/rustyeddy/stockview/market"
)

// Record is one candle on the wire.
type Record struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

func toRecords(cs []market.Candle) []Record {
	out := make([]Record, 0, len(cs))
	for _, c := range cs {
		out = append(out, Record{
			Date:   c.Time.Format(market.DateLayout),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}
	return out
}

// GetStock handles GET /stock/:symbol requests
func (h *APIHandler) GetStock(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.RequestTimeout)
	defer cancel()

	candles, err := h.stocks.Query(ctx, service.Query{
		Symbol:    c.Param("symbol"),
		Interval:  c.Query("interval"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, toRecords(candles))
}

// ListSymbols handles GET /stock requests
func (h *APIHandler) ListSymbols(c *gin.Context) {
	symbols, err := h.stocks.Symbols()
	if err != nil {
		h.writeError(c, err)
		return
	}
	if symbols == nil {
		symbols = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"symbols": symbols})
}

// HealthCheck handles GET /health requests
func (h *APIHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.opts.Version,
	})
}
