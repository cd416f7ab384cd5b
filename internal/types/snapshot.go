package types

// Snapshot is the per-candle state record; the full sequence is the equity curve.
type Snapshot struct {
	Index         int     `csv:"index"`
	Cash          float64 `csv:"cash"`
	PositionSize  float64 `csv:"position_size"`
	UnrealizedPnL float64 `csv:"unrealized_pnl"`
	Equity        float64 `csv:"equity"`
}

// Result is returned by the engine after running the simulation.
type Result struct {
	Trades        []*Trade
	Snapshots     []Snapshot
	FinalEquity   float64
	RealizedPnL   float64
	UnrealizedPnL float64
}
